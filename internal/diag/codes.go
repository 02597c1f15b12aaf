package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Проектные
	ProjInfo             Code = 5000
	ProjDuplicateModule  Code = 5001
	ProjMissingModule    Code = 5002
	ProjSelfImport       Code = 5003
	ProjImportCycle      Code = 5004
	ProjInvalidModule    Code = 5005
	ProjDependencyFailed Code = 5007
	ProjInvalidManifest  Code = 5008

	// Генерация кода
	GenInfo               Code = 6000
	GenNoValidators       Code = 6001
	GenShadowedBuiltin    Code = 6002
	GenDuplicateValidator Code = 6003
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	ProjInfo:              "Project information",
	ProjDuplicateModule:   "Duplicate module definition",
	ProjMissingModule:     "Missing module",
	ProjSelfImport:        "Module imports itself",
	ProjImportCycle:       "Import cycle detected",
	ProjInvalidModule:     "Invalid module declaration",
	ProjDependencyFailed:  "Dependency module has errors",
	ProjInvalidManifest:   "Invalid project manifest",
	GenInfo:               "Code generation information",
	GenNoValidators:       "No validators found",
	GenShadowedBuiltin:    "Definition shadows a builtin",
	GenDuplicateValidator: "Duplicate validator name",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
