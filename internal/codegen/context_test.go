package codegen

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"plinth/internal/ast"
	"plinth/internal/source"
	"plinth/internal/trace"
)

const preludeModule = "aiken"

func builtinTables() (map[ast.FunctionAccessKey]*ast.Function, map[ast.DataTypeKey]*ast.DataType) {
	fns := map[ast.FunctionAccessKey]*ast.Function{
		{ModuleName: preludeModule, FunctionName: "foo"}: {Name: "foo", Type: "fn() -> Int"},
	}
	types := map[ast.DataTypeKey]*ast.DataType{
		{ModuleName: preludeModule, DefinedType: "Bool"}: {Name: "Bool", Public: true},
	}
	return fns, types
}

func userModule(name, code string) ModuleSource {
	return ModuleSource{
		Name: name,
		Code: code,
		Definitions: []ast.Definition{
			&ast.Use{Module: []string{"aiken", "list"}},
			&ast.Function{Name: "foo", Public: true, Type: "fn() -> ByteArray"},
			&ast.DataType{Name: "Datum", Constructors: []ast.Constructor{{Name: "Datum"}}},
			&ast.TypeAlias{Name: "Alias"},
			&ast.ModuleConstant{Name: "limit"},
			&ast.Test{Name: "foo_works"},
			&ast.Validator{Fun: ast.Function{Name: "spend"}},
		},
	}
}

func TestQualifiedKeysKeepSameNameApart(t *testing.T) {
	fns, types := builtinTables()
	c := NewContext(context.Background(), Input{
		BuiltinFunctions: fns,
		BuiltinDataTypes: types,
		Modules:          []ModuleSource{userModule("m", "")},
	})

	builtin, ok := c.Function(ast.FunctionAccessKey{ModuleName: preludeModule, FunctionName: "foo"})
	if !ok || builtin.Type != "fn() -> Int" {
		t.Fatalf("builtin foo = %+v, %v", builtin, ok)
	}
	user, ok := c.Function(ast.FunctionAccessKey{ModuleName: "m", FunctionName: "foo"})
	if !ok || user.Type != "fn() -> ByteArray" {
		t.Fatalf("user foo = %+v, %v", user, ok)
	}
	if got := len(c.FunctionKeys()); got != 2 {
		t.Fatalf("function count = %d, want 2", got)
	}
}

func TestExactKeyShadowsBuiltin(t *testing.T) {
	fns, types := builtinTables()
	c := NewContext(context.Background(), Input{
		BuiltinFunctions: fns,
		BuiltinDataTypes: types,
		Modules: []ModuleSource{{
			Name: preludeModule,
			Definitions: []ast.Definition{
				&ast.Function{Name: "foo", Type: "fn() -> String"},
				&ast.DataType{Name: "Bool", Opaque: true},
			},
		}},
	})

	fn, _ := c.Function(ast.FunctionAccessKey{ModuleName: preludeModule, FunctionName: "foo"})
	if fn.Type != "fn() -> String" {
		t.Fatalf("builtin foo was not replaced: %+v", fn)
	}
	dt, _ := c.DataType(ast.DataTypeKey{ModuleName: preludeModule, DefinedType: "Bool"})
	if !dt.Opaque {
		t.Fatalf("builtin Bool was not replaced: %+v", dt)
	}
	if got := len(c.FunctionKeys()); got != 1 {
		t.Fatalf("function count = %d, want 1", got)
	}
	if fns[ast.FunctionAccessKey{ModuleName: preludeModule, FunctionName: "foo"}].Type != "fn() -> Int" {
		t.Fatalf("builtin table was mutated")
	}
}

func TestOnlyFunctionsAndDataTypesAreCollected(t *testing.T) {
	table := BuildSymbolTable(nil, nil, []ModuleSource{userModule("m", "")})

	if len(table.Functions) != 1 {
		t.Fatalf("functions = %v", table.FunctionKeys())
	}
	if len(table.DataTypes) != 1 {
		t.Fatalf("data types = %v", table.DataTypeKeys())
	}
	if _, ok := table.Functions[ast.FunctionAccessKey{ModuleName: "m", FunctionName: "spend"}]; ok {
		t.Fatalf("validator handler must not be collected")
	}
}

func TestLaterModuleWinsOnEqualKey(t *testing.T) {
	first := ModuleSource{Name: "dup", Definitions: []ast.Definition{&ast.Function{Name: "f", Type: "first"}}}
	second := ModuleSource{Name: "dup", Definitions: []ast.Definition{&ast.Function{Name: "f", Type: "second"}}}

	table := BuildSymbolTable(nil, nil, []ModuleSource{first, second})
	if got := table.Functions[ast.FunctionAccessKey{ModuleName: "dup", FunctionName: "f"}].Type; got != "second" {
		t.Fatalf("winner = %q, want second", got)
	}
}

func TestContextIsDeterministic(t *testing.T) {
	fns, types := builtinTables()
	modules := []ModuleSource{
		userModule("a", "fn foo() {\n  #\"\"\n}\n"),
		userModule("b", "type Datum {\n  Datum\n}\n"),
		userModule("c", ""),
	}
	reversed := []ModuleSource{modules[2], modules[1], modules[0]}

	build := func(ms []ModuleSource) []byte {
		c := NewContext(context.Background(), Input{
			BuiltinFunctions: fns,
			BuiltinDataTypes: types,
			Modules:          ms,
			Tracing:          trace.VerboseTracing(true),
		})
		data, err := c.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary: %v", err)
		}
		return data
	}

	first := build(modules)
	if !bytes.Equal(first, build(modules)) {
		t.Fatalf("rebuilding from the same input changed the encoding")
	}
	if !bytes.Equal(first, build(reversed)) {
		t.Fatalf("module order changed the encoding")
	}

	snap, err := DecodeSnapshot(first)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if snap.TraceLevel != "verbose" || len(snap.Modules) != 3 || snap.Modules[0].Name != "a" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestTraceLevelAndSources(t *testing.T) {
	c := NewContext(context.Background(), Input{
		Modules: []ModuleSource{userModule("m", "use aiken/list\nfn foo() { 1 }\n")},
		Tracing: trace.UserDefinedTraces(trace.TraceVerbose),
	})
	if c.TraceLevel() != trace.TraceSilent {
		t.Fatalf("code generation must read the compiler-generated level, got %v", c.TraceLevel())
	}

	m, ok := c.Module("m")
	if !ok || m.Lines.Lines() != 3 {
		t.Fatalf("module source = %+v, %v", m, ok)
	}
	start, _, ok := c.Locate("m", source.Span{Start: 18, End: 21})
	if !ok || start != (source.LineCol{Line: 2, Col: 4}) {
		t.Fatalf("Locate = %+v, %v", start, ok)
	}
	if _, _, ok := c.Locate("missing", source.Span{}); ok {
		t.Fatalf("Locate found a missing module")
	}
}

func TestModuleTypesAreForwarded(t *testing.T) {
	info := &ast.TypeInfo{Name: "m", Package: "acme/app"}
	c := NewContext(context.Background(), Input{ModuleTypes: map[string]*ast.TypeInfo{"m": info}})
	if got, ok := c.ModuleTypes("m"); !ok || got != info {
		t.Fatalf("ModuleTypes = %v, %v", got, ok)
	}
}

func TestAggregationTracesDefinitions(t *testing.T) {
	var buf bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText))
	NewContext(ctx, Input{Modules: []ModuleSource{userModule("m", "")}})

	out := buf.String()
	for _, want := range []string{"→ aggregate", "fn:m.foo", "type:m.Datum", "← aggregate"} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace output missing %q:\n%s", want, out)
		}
	}
}
