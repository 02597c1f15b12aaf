package driver

import (
	"context"
	"fmt"
	"strings"

	"plinth/internal/ast"
	"plinth/internal/builtins"
	"plinth/internal/diag"
	"plinth/internal/project"
)

// Checker type checks one parsed module. deps holds every module checked so
// far; all modules the parsed one imports are in it. deps must not be
// modified: in parallel mode several Check calls share it.
type Checker interface {
	Check(ctx context.Context, module *project.ParsedModule, deps *project.CheckedModules) (*project.CheckedModule, *ast.TypeInfo, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, module *project.ParsedModule, deps *project.CheckedModules) (*project.CheckedModule, *ast.TypeInfo, error)

func (f CheckerFunc) Check(ctx context.Context, module *project.ParsedModule, deps *project.CheckedModules) (*project.CheckedModule, *ast.TypeInfo, error) {
	return f(ctx, module, deps)
}

// DeclarationChecker checks top-level declarations only: names are unique
// within a module, validators live in validator modules and imports resolve.
// Bodies are left as they are. Imports of modules it cannot see are reported
// as warnings unless they name the prelude or Known accepts them.
type DeclarationChecker struct {
	Reporter diag.Reporter
	Known    func(module string) bool
}

func (c DeclarationChecker) Check(ctx context.Context, module *project.ParsedModule, deps *project.CheckedModules) (*project.CheckedModule, *ast.TypeInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if module.AST == nil {
		return nil, nil, fmt.Errorf("module %q has no syntax tree", module.Name)
	}

	for _, dep := range module.AST.Dependencies() {
		if _, ok := deps.Get(dep.Name); ok || c.known(dep.Name) {
			continue
		}
		diag.ReportWarning(c.Reporter, diag.ProjMissingModule, module.Name, dep.Location,
			fmt.Sprintf("module %q imports unknown module %q", module.Name, dep.Name)).Emit()
	}

	if err := c.checkNames(module); err != nil {
		return nil, nil, err
	}

	checked := &project.CheckedModule{
		Name:      module.Name,
		Code:      module.Code,
		InputPath: module.Path,
		Kind:      module.Kind,
		Package:   module.Package,
		AST:       module.AST,
		Extra:     module.Extra,
	}
	return checked, moduleTypeInfo(module), nil
}

func (c DeclarationChecker) known(name string) bool {
	if name == builtins.PreludeModule || strings.HasPrefix(name, builtins.PreludeModule+"/") {
		return true
	}
	return c.Known != nil && c.Known(name)
}

func (c DeclarationChecker) checkNames(module *project.ParsedModule) error {
	seen := make(map[string]ast.Definition)
	handlers := make(map[string]*ast.Validator)
	var problems []string

	for _, def := range module.AST.Definitions {
		switch d := def.(type) {
		case *ast.Validator:
			if !module.Kind.IsValidator() {
				diag.ReportError(c.Reporter, diag.ProjInvalidModule, module.Name, d.Span,
					fmt.Sprintf("validator %q in %s module %q", d.Name(), module.Kind, module.Name)).Emit()
				problems = append(problems, "validator outside a validator module")
				continue
			}
			if prev, dup := handlers[d.Name()]; dup {
				diag.ReportError(c.Reporter, diag.GenDuplicateValidator, module.Name, d.Span,
					fmt.Sprintf("validator %q is defined twice", d.Name())).
					WithNote(module.Name, prev.Span, "first defined here").
					Emit()
				problems = append(problems, "duplicate validator "+d.Name())
				continue
			}
			handlers[d.Name()] = d
		default:
			name, kind := definitionName(def)
			if name == "" {
				continue
			}
			key := kind + ":" + name
			if prev, dup := seen[key]; dup {
				diag.ReportError(c.Reporter, diag.ProjInvalidModule, module.Name, def.Location(),
					fmt.Sprintf("%s %q is defined twice", kind, name)).
					WithNote(module.Name, prev.Location(), "first defined here").
					Emit()
				problems = append(problems, "duplicate "+kind+" "+name)
				continue
			}
			seen[key] = def
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("module %q: %s", module.Name, strings.Join(problems, "; "))
	}
	return nil
}

// definitionName returns the name of a definition and the namespace it
// lives in; values and types do not clash with each other.
func definitionName(def ast.Definition) (name, namespace string) {
	switch d := def.(type) {
	case *ast.Function:
		return d.Name, "value"
	case *ast.ModuleConstant:
		return d.Name, "value"
	case *ast.Test:
		return d.Name, "test"
	case *ast.DataType:
		return d.Name, "type"
	case *ast.TypeAlias:
		return d.Name, "type"
	}
	return "", ""
}

func moduleTypeInfo(module *project.ParsedModule) *ast.TypeInfo {
	info := &ast.TypeInfo{
		Name:    module.Name,
		Package: module.Package,
		Types:   make(map[string]string),
		Values:  make(map[string]string),
	}
	for _, def := range module.AST.Definitions {
		switch d := def.(type) {
		case *ast.DataType:
			if d.Public {
				info.Types[d.Name] = typeHead(d.Name, d.Parameters)
				if d.Opaque {
					continue
				}
				for _, ctor := range d.Constructors {
					info.Values[ctor.Name] = constructorType(ctor, typeHead(d.Name, d.Parameters))
				}
			}
		case *ast.TypeAlias:
			if d.Public {
				info.Types[d.Name] = d.Annotation
			}
		case *ast.Function:
			if d.Public {
				info.Values[d.Name] = functionType(d)
			}
		case *ast.ModuleConstant:
			if d.Public {
				info.Values[d.Name] = "const"
			}
		}
	}
	return info
}

func typeHead(name string, params []string) string {
	if len(params) == 0 {
		return name
	}
	return name + "(" + strings.Join(params, ", ") + ")"
}

func constructorType(ctor ast.Constructor, result string) string {
	if len(ctor.Fields) == 0 {
		return result
	}
	return "fn(" + joinAnnotations(ctor.Fields) + ") -> " + result
}

func functionType(fn *ast.Function) string {
	if fn.Type != "" {
		return fn.Type
	}
	ret := fn.ReturnType
	if ret == "" {
		ret = "?"
	}
	return "fn(" + joinAnnotations(fn.Arguments) + ") -> " + ret
}

func joinAnnotations(args []ast.Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Annotation
		if parts[i] == "" {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
