package project

import (
	"cmp"
	"context"
	"iter"
	"maps"
	"slices"

	"plinth/internal/ast"
	"plinth/internal/codegen"
	"plinth/internal/trace"
)

// CheckedModule is a module after type checking. It keeps the identity of
// the ParsedModule it came from.
type CheckedModule struct {
	Name      string
	Code      string
	InputPath string
	Kind      ModuleKind
	Package   string
	AST       *ast.Module
	Extra     ModuleExtra
}

// FindNode returns the top-level definition located at byteIndex.
func (m *CheckedModule) FindNode(byteIndex uint32) (ast.Definition, bool) {
	return m.AST.FindDefinition(byteIndex)
}

// CheckedModules collects modules as they finish type checking.
type CheckedModules struct {
	modules map[string]*CheckedModule
}

// NewCheckedModules wraps modules. The map is owned by the result afterwards.
func NewCheckedModules(modules map[string]*CheckedModule) *CheckedModules {
	if modules == nil {
		modules = make(map[string]*CheckedModule)
	}
	return &CheckedModules{modules: modules}
}

// Singleton builds a set holding only module, for single-module tooling.
func Singleton(module *CheckedModule) *CheckedModules {
	modules := NewCheckedModules(nil)
	modules.Insert(module)
	return modules
}

// Insert adds module, replacing any module with the same name.
func (c *CheckedModules) Insert(module *CheckedModule) {
	c.modules[module.Name] = module
}

// Get returns the module called name.
func (c *CheckedModules) Get(name string) (*CheckedModule, bool) {
	m, ok := c.modules[name]
	return m, ok
}

func (c *CheckedModules) Len() int {
	return len(c.modules)
}

// Names returns every module name in ascending order.
func (c *CheckedModules) Names() []string {
	return slices.Sorted(maps.Keys(c.modules))
}

// All iterates modules in ascending name order.
func (c *CheckedModules) All() iter.Seq2[string, *CheckedModule] {
	return func(yield func(string, *CheckedModule) bool) {
		for _, name := range c.Names() {
			if !yield(name, c.modules[name]) {
				return
			}
		}
	}
}

// Map returns a shallow copy of the underlying map.
func (c *CheckedModules) Map() map[string]*CheckedModule {
	return maps.Clone(c.modules)
}

type validatorItem struct {
	module    *CheckedModule
	validator *ast.Validator
}

// Validators yields every validator of every validator module ordered by
// package, module name and handler name. Each call sorts afresh; the
// sequence reflects the set at the time of the call.
func (c *CheckedModules) Validators() iter.Seq2[*CheckedModule, *ast.Validator] {
	var items []validatorItem
	for _, module := range c.modules {
		if !module.Kind.IsValidator() {
			continue
		}
		for _, v := range module.AST.Validators() {
			items = append(items, validatorItem{module: module, validator: v})
		}
	}

	slices.SortFunc(items, func(left, right validatorItem) int {
		return cmp.Or(
			cmp.Compare(left.module.Package, right.module.Package),
			cmp.Compare(left.module.Name, right.module.Name),
			cmp.Compare(left.validator.Fun.Name, right.validator.Fun.Name),
		)
	})

	return func(yield func(*CheckedModule, *ast.Validator) bool) {
		for _, item := range items {
			if !yield(item.module, item.validator) {
				return
			}
		}
	}
}

// IntoValidators returns the validator modules, sorted by name. Library and
// test modules are left out.
func (c *CheckedModules) IntoValidators() []*CheckedModule {
	var out []*CheckedModule
	for _, name := range c.Names() {
		if m := c.modules[name]; m.Kind.IsValidator() {
			out = append(out, m)
		}
	}
	return out
}

// NewGeneratorContext merges the builtins with every function and data type
// of the checked modules and bundles them for code generation. Modules are
// folded in ascending name order; an entry whose qualified key equals a
// builtin's replaces it.
func (c *CheckedModules) NewGeneratorContext(
	ctx context.Context,
	builtinFunctions map[ast.FunctionAccessKey]*ast.Function,
	builtinDataTypes map[ast.DataTypeKey]*ast.DataType,
	moduleTypes map[string]*ast.TypeInfo,
	tracing trace.Tracing,
) *codegen.Context {
	sources := make([]codegen.ModuleSource, 0, len(c.modules))
	for name, module := range c.All() {
		sources = append(sources, codegen.ModuleSource{
			Name:        name,
			Code:        module.Code,
			Definitions: module.AST.Definitions,
		})
	}
	return codegen.NewContext(ctx, codegen.Input{
		BuiltinFunctions: builtinFunctions,
		BuiltinDataTypes: builtinDataTypes,
		Modules:          sources,
		ModuleTypes:      moduleTypes,
		Tracing:          tracing,
	})
}
