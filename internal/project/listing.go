package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"plinth/internal/ast"
	"plinth/internal/source"
)

// A listing is a TOML file that declares modules, their imports and their
// top-level definitions. Tooling uses it in place of a parser.
type listingFile struct {
	Modules []listingModule `toml:"module"`
}

type listingModule struct {
	Name       string             `toml:"name"`
	Package    string             `toml:"package"`
	Path       string             `toml:"path"`
	Kind       string             `toml:"kind"`
	Code       string             `toml:"code"`
	Imports    []string           `toml:"imports"`
	Functions  []listingFunction  `toml:"function"`
	Types      []listingType      `toml:"type"`
	Validators []listingValidator `toml:"validator"`
}

type listingFunction struct {
	Name    string   `toml:"name"`
	Public  bool     `toml:"public"`
	Params  []string `toml:"params"`
	Returns string   `toml:"returns"`
	Type    string   `toml:"type"`
}

type listingType struct {
	Name         string   `toml:"name"`
	Public       bool     `toml:"public"`
	Opaque       bool     `toml:"opaque"`
	Parameters   []string `toml:"parameters"`
	Constructors []string `toml:"constructors"`
}

type listingValidator struct {
	Name   string   `toml:"name"`
	Else   string   `toml:"else"`
	Params []string `toml:"params"`
}

// ErrDuplicateModule is returned when a listing declares a module twice.
var ErrDuplicateModule = errors.New("duplicate module")

// LoadListing reads a module listing. Modules without a package get
// defaultPackage. Source text comes from code, else from path relative to
// the listing's directory when that file exists.
func LoadListing(path, defaultPackage string) (*ParsedModules, error) {
	var cfg listingFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	modules := make(map[string]*ParsedModule, len(cfg.Modules))
	for i, lm := range cfg.Modules {
		name := NormalizeModuleName(lm.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: module #%d has no name", path, i+1)
		}
		if _, dup := modules[name]; dup {
			return nil, fmt.Errorf("%s: %w %q", path, ErrDuplicateModule, name)
		}
		kind, err := ParseModuleKind(lm.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: module %q: %w", path, name, err)
		}
		if kind != ModuleKindValidator && len(lm.Validators) > 0 {
			return nil, fmt.Errorf("%s: module %q declares validators but has kind %s", path, name, kind)
		}

		code, err := listingCode(baseDir, lm)
		if err != nil {
			return nil, fmt.Errorf("%s: module %q: %w", path, name, err)
		}

		pkg := strings.TrimSpace(lm.Package)
		if pkg == "" {
			pkg = defaultPackage
		}

		modules[name] = &ParsedModule{
			Path:    lm.Path,
			Name:    name,
			Code:    code,
			Kind:    kind,
			Package: pkg,
			AST:     listingAST(name, code, lm),
		}
	}
	return NewParsedModules(modules), nil
}

// NormalizeModuleName trims and NFC-normalises a module name and its slashes.
func NormalizeModuleName(name string) string {
	name = strings.Trim(strings.TrimSpace(name), "/")
	return norm.NFC.String(strings.ReplaceAll(name, "\\", "/"))
}

func listingCode(baseDir string, lm listingModule) (string, error) {
	if lm.Code != "" {
		return string(source.Normalize([]byte(lm.Code))), nil
	}
	if lm.Path == "" {
		return "", nil
	}
	p := lm.Path
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	// #nosec G304 -- path comes from the listing the user passed
	content, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(source.Normalize(content)), nil
}

func listingAST(name, code string, lm listingModule) *ast.Module {
	mod := &ast.Module{Name: name}

	for _, imp := range lm.Imports {
		imp = NormalizeModuleName(imp)
		if imp == "" {
			continue
		}
		mod.Definitions = append(mod.Definitions, &ast.Use{
			Module: strings.Split(imp, "/"),
			Span:   locate(code, "use "+imp),
		})
	}
	for _, lt := range lm.Types {
		ctors := make([]ast.Constructor, len(lt.Constructors))
		for i, c := range lt.Constructors {
			ctors[i] = ast.Constructor{Name: c}
		}
		mod.Definitions = append(mod.Definitions, &ast.DataType{
			Name:         lt.Name,
			Public:       lt.Public,
			Opaque:       lt.Opaque,
			Parameters:   lt.Parameters,
			Constructors: ctors,
			Span:         locate(code, "type "+lt.Name),
		})
	}
	for _, lf := range lm.Functions {
		fn := listingFn(lf.Name, lf.Params, lf.Returns, lf.Type)
		fn.Public = lf.Public
		fn.Span = locate(code, "fn "+lf.Name)
		mod.Definitions = append(mod.Definitions, fn)
	}
	for _, lv := range lm.Validators {
		v := &ast.Validator{
			Params: parseArgs(lv.Params),
			Fun:    *listingFn(lv.Name, nil, "", ""),
			Span:   locate(code, "validator "+lv.Name),
		}
		if lv.Else != "" {
			v.OtherFun = listingFn(lv.Else, nil, "", "")
		}
		mod.Definitions = append(mod.Definitions, v)
	}
	return mod
}

func listingFn(name string, params []string, returns, typ string) *ast.Function {
	return &ast.Function{
		Name:       name,
		Arguments:  parseArgs(params),
		ReturnType: returns,
		Type:       typ,
	}
}

// parseArgs reads "label:Annotation" pairs.
func parseArgs(params []string) []ast.Arg {
	args := make([]ast.Arg, 0, len(params))
	for _, p := range params {
		label, annotation, _ := strings.Cut(p, ":")
		args = append(args, ast.Arg{Label: strings.TrimSpace(label), Annotation: strings.TrimSpace(annotation)})
	}
	return args
}

// locate finds the first occurrence of needle in code and returns its span,
// or an empty span at 0.
func locate(code, needle string) source.Span {
	i := strings.Index(code, needle)
	if i < 0 {
		return source.Span{}
	}
	start, err := safecast.Conv[uint32](i)
	if err != nil {
		return source.Span{}
	}
	end, err := safecast.Conv[uint32](i + len(needle))
	if err != nil {
		return source.Span{}
	}
	return source.Span{Start: start, End: end}
}
