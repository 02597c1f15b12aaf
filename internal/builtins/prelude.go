// Package builtins provides the prelude every module sees without importing
// it. Definitions are keyed under PreludeModule exactly like user
// definitions are keyed under their own module name.
package builtins

import (
	"plinth/internal/ast"
)

// PreludeModule is the module name builtins are qualified with.
const PreludeModule = "aiken"

func arg(label, annotation string) ast.Arg {
	return ast.Arg{Label: label, Annotation: annotation}
}

func variant(name string, fields ...ast.Arg) ast.Constructor {
	return ast.Constructor{Name: name, Fields: fields}
}

// DataTypes returns a fresh table of the prelude data types.
func DataTypes() map[ast.DataTypeKey]*ast.DataType {
	types := []*ast.DataType{
		{Name: "Bool", Public: true, Constructors: []ast.Constructor{variant("False"), variant("True")}},
		{Name: "Void", Public: true, Constructors: []ast.Constructor{variant("Void")}},
		{Name: "Ordering", Public: true, Constructors: []ast.Constructor{variant("Less"), variant("Equal"), variant("Greater")}},
		{
			Name:         "Option",
			Public:       true,
			Parameters:   []string{"a"},
			Constructors: []ast.Constructor{variant("Some", arg("", "a")), variant("None")},
		},
		{Name: "Data", Public: true, Opaque: true},
		{Name: "Never", Public: true, Constructors: []ast.Constructor{variant("Never")}},
	}

	out := make(map[ast.DataTypeKey]*ast.DataType, len(types))
	for _, dt := range types {
		out[ast.DataTypeKey{ModuleName: PreludeModule, DefinedType: dt.Name}] = dt
	}
	return out
}

// Functions returns a fresh table of the prelude functions.
func Functions() map[ast.FunctionAccessKey]*ast.Function {
	fns := []*ast.Function{
		{
			Name:       "not",
			Public:     true,
			Arguments:  []ast.Arg{arg("self", "Bool")},
			ReturnType: "Bool",
			Type:       "fn(Bool) -> Bool",
		},
		{
			Name:       "identity",
			Public:     true,
			Arguments:  []ast.Arg{arg("a", "a")},
			ReturnType: "a",
			Type:       "fn(a) -> a",
		},
		{
			Name:       "always",
			Public:     true,
			Arguments:  []ast.Arg{arg("a", "a"), arg("b", "b")},
			ReturnType: "a",
			Type:       "fn(a, b) -> a",
		},
		{
			Name:       "flip",
			Public:     true,
			Arguments:  []ast.Arg{arg("f", "fn(a, b) -> c")},
			ReturnType: "fn(b, a) -> c",
			Type:       "fn(fn(a, b) -> c) -> fn(b, a) -> c",
		},
		{
			Name:       "enumerate",
			Public:     true,
			Arguments:  []ast.Arg{arg("self", "Data")},
			ReturnType: "Ordering",
			Type:       "fn(Data) -> Ordering",
		},
	}

	out := make(map[ast.FunctionAccessKey]*ast.Function, len(fns))
	for _, fn := range fns {
		out[ast.FunctionAccessKey{ModuleName: PreludeModule, FunctionName: fn.Name}] = fn
	}
	return out
}
