package codegen

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strconv"

	"plinth/internal/ast"
	"plinth/internal/source"
	"plinth/internal/trace"
)

// Input is everything NewContext aggregates.
type Input struct {
	BuiltinFunctions map[ast.FunctionAccessKey]*ast.Function
	BuiltinDataTypes map[ast.DataTypeKey]*ast.DataType
	Modules          []ModuleSource
	ModuleTypes      map[string]*ast.TypeInfo
	Tracing          trace.Tracing
}

// ModuleCode is a module's source text with its line index.
type ModuleCode struct {
	Code  string
	Lines source.LineNumbers
}

// Context is the read-only input of the code generator.
type Context struct {
	symbols      SymbolTable
	functionKeys []ast.FunctionAccessKey
	dataTypeKeys []ast.DataTypeKey
	moduleSrc    map[string]ModuleCode
	moduleNames  []string
	moduleTypes  map[string]*ast.TypeInfo
	traceLevel   trace.TraceLevel
}

// NewContext folds in.Modules in ascending name order over the builtins,
// indexes every module's source, and resolves the code generation trace
// level from in.Tracing. A tracer found in ctx receives one event per
// collected definition at debug level.
func NewContext(ctx context.Context, in Input) *Context {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopePass, "aggregate", trace.CurrentSpan(ctx))

	modules := slices.Clone(in.Modules)
	slices.SortStableFunc(modules, func(a, b ModuleSource) int {
		return cmp.Compare(a.Name, b.Name)
	})

	symbols := foldSymbols(t, span.ID(), in.BuiltinFunctions, in.BuiltinDataTypes, modules)

	moduleSrc := make(map[string]ModuleCode, len(modules))
	for _, module := range modules {
		moduleSrc[module.Name] = ModuleCode{
			Code:  module.Code,
			Lines: source.NewLineNumbers(module.Code),
		}
	}

	c := &Context{
		symbols:      symbols,
		functionKeys: symbols.FunctionKeys(),
		dataTypeKeys: symbols.DataTypeKeys(),
		moduleSrc:    moduleSrc,
		moduleNames:  slices.Sorted(maps.Keys(moduleSrc)),
		moduleTypes:  maps.Clone(in.ModuleTypes),
		traceLevel:   in.Tracing.TraceLevel(true),
	}

	span.WithExtra("functions", strconv.Itoa(len(c.functionKeys))).
		WithExtra("types", strconv.Itoa(len(c.dataTypeKeys))).
		WithExtra("modules", strconv.Itoa(len(c.moduleNames))).
		End("")
	return c
}

// Function looks up a function by qualified key.
func (c *Context) Function(key ast.FunctionAccessKey) (*ast.Function, bool) {
	fn, ok := c.symbols.Functions[key]
	return fn, ok
}

// DataType looks up a data type by qualified key.
func (c *Context) DataType(key ast.DataTypeKey) (*ast.DataType, bool) {
	dt, ok := c.symbols.DataTypes[key]
	return dt, ok
}

// FunctionKeys returns every function key in ascending order.
func (c *Context) FunctionKeys() []ast.FunctionAccessKey {
	return slices.Clone(c.functionKeys)
}

// DataTypeKeys returns every data type key in ascending order.
func (c *Context) DataTypeKeys() []ast.DataTypeKey {
	return slices.Clone(c.dataTypeKeys)
}

// Module returns the source of the module called name.
func (c *Context) Module(name string) (ModuleCode, bool) {
	m, ok := c.moduleSrc[name]
	return m, ok
}

// ModuleNames returns the names of indexed modules in ascending order.
func (c *Context) ModuleNames() []string {
	return slices.Clone(c.moduleNames)
}

// ModuleTypes returns the type information of the module called name.
func (c *Context) ModuleTypes(name string) (*ast.TypeInfo, bool) {
	ti, ok := c.moduleTypes[name]
	return ti, ok
}

// TraceLevel is the level compiled code is generated with.
func (c *Context) TraceLevel() trace.TraceLevel {
	return c.traceLevel
}

// Locate maps a span in module to line/column positions.
func (c *Context) Locate(module string, span source.Span) (start, end source.LineCol, ok bool) {
	m, ok := c.moduleSrc[module]
	if !ok {
		return source.LineCol{}, source.LineCol{}, false
	}
	start, end = m.Lines.Resolve(span)
	return start, end, true
}
