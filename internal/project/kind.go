package project

import (
	"fmt"
	"strings"
)

// ModuleKind tells what a module may contain and how it is built.
type ModuleKind uint8

const (
	ModuleKindLib ModuleKind = iota
	ModuleKindValidator
	ModuleKindTest
)

func (k ModuleKind) String() string {
	switch k {
	case ModuleKindLib:
		return "lib"
	case ModuleKindValidator:
		return "validator"
	case ModuleKindTest:
		return "test"
	default:
		return "unknown"
	}
}

func (k ModuleKind) IsLib() bool       { return k == ModuleKindLib }
func (k ModuleKind) IsValidator() bool { return k == ModuleKindValidator }

// ParseModuleKind converts a manifest string to a ModuleKind.
func ParseModuleKind(s string) (ModuleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lib":
		return ModuleKindLib, nil
	case "validator":
		return ModuleKindValidator, nil
	case "test":
		return ModuleKindTest, nil
	default:
		return ModuleKindLib, fmt.Errorf("invalid module kind %q (expected lib|validator|test)", s)
	}
}
