package builtins

import (
	"testing"

	"plinth/internal/ast"
)

func TestPreludeKeysAreQualified(t *testing.T) {
	for key, fn := range Functions() {
		if key.ModuleName != PreludeModule || key.FunctionName != fn.Name {
			t.Fatalf("function key %v does not match %q", key, fn.Name)
		}
	}
	for key, dt := range DataTypes() {
		if key.ModuleName != PreludeModule || key.DefinedType != dt.Name {
			t.Fatalf("type key %v does not match %q", key, dt.Name)
		}
	}
}

func TestPreludeTablesAreFresh(t *testing.T) {
	a := Functions()
	delete(a, ast.FunctionAccessKey{ModuleName: PreludeModule, FunctionName: "not"})
	if _, ok := Functions()[ast.FunctionAccessKey{ModuleName: PreludeModule, FunctionName: "not"}]; !ok {
		t.Fatalf("Functions() must return a new table on each call")
	}
	if dt := DataTypes()[ast.DataTypeKey{ModuleName: PreludeModule, DefinedType: "Option"}]; len(dt.Constructors) != 2 {
		t.Fatalf("Option constructors = %v", dt.Constructors)
	}
}
