package codegen

import (
	"slices"

	"plinth/internal/ast"
	"plinth/internal/trace"
)

// ModuleSource is one checked module as seen by aggregation.
type ModuleSource struct {
	Name        string
	Code        string
	Definitions []ast.Definition
}

// SymbolTable maps qualified keys to definitions.
type SymbolTable struct {
	Functions map[ast.FunctionAccessKey]*ast.Function
	DataTypes map[ast.DataTypeKey]*ast.DataType
}

// BuildSymbolTable seeds a table with the builtins and folds every module's
// functions and data types into it, modules in the order given. A definition
// whose key is already present replaces the earlier entry. Aliases,
// constants, tests, validators and imports are not collected.
func BuildSymbolTable(
	builtinFunctions map[ast.FunctionAccessKey]*ast.Function,
	builtinDataTypes map[ast.DataTypeKey]*ast.DataType,
	modules []ModuleSource,
) SymbolTable {
	return foldSymbols(trace.Nop, 0, builtinFunctions, builtinDataTypes, modules)
}

func foldSymbols(
	t trace.Tracer,
	parent uint64,
	builtinFunctions map[ast.FunctionAccessKey]*ast.Function,
	builtinDataTypes map[ast.DataTypeKey]*ast.DataType,
	modules []ModuleSource,
) SymbolTable {
	table := SymbolTable{
		Functions: make(map[ast.FunctionAccessKey]*ast.Function, len(builtinFunctions)),
		DataTypes: make(map[ast.DataTypeKey]*ast.DataType, len(builtinDataTypes)),
	}
	for k, v := range builtinFunctions {
		table.Functions[k] = v
	}
	for k, v := range builtinDataTypes {
		table.DataTypes[k] = v
	}

	for _, module := range modules {
		for _, def := range module.Definitions {
			switch def := def.(type) {
			case *ast.Function:
				key := ast.FunctionAccessKey{ModuleName: module.Name, FunctionName: def.Name}
				if _, shadowed := table.Functions[key]; shadowed {
					trace.Point(t, trace.ScopeDefinition, "fn:"+key.String(), "replaces earlier definition", parent)
				} else {
					trace.Point(t, trace.ScopeDefinition, "fn:"+key.String(), "", parent)
				}
				table.Functions[key] = def
			case *ast.DataType:
				key := ast.DataTypeKey{ModuleName: module.Name, DefinedType: def.Name}
				if _, shadowed := table.DataTypes[key]; shadowed {
					trace.Point(t, trace.ScopeDefinition, "type:"+key.String(), "replaces earlier definition", parent)
				} else {
					trace.Point(t, trace.ScopeDefinition, "type:"+key.String(), "", parent)
				}
				table.DataTypes[key] = def
			}
		}
	}

	return table
}

// FunctionKeys returns the function keys in ascending order.
func (s SymbolTable) FunctionKeys() []ast.FunctionAccessKey {
	keys := make([]ast.FunctionAccessKey, 0, len(s.Functions))
	for k := range s.Functions {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, ast.FunctionAccessKey.Compare)
	return keys
}

// DataTypeKeys returns the data type keys in ascending order.
func (s SymbolTable) DataTypeKeys() []ast.DataTypeKey {
	keys := make([]ast.DataTypeKey, 0, len(s.DataTypes))
	for k := range s.DataTypes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, ast.DataTypeKey.Compare)
	return keys
}
