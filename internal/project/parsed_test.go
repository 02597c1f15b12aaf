package project

import (
	"errors"
	"slices"
	"testing"

	"plinth/internal/ast"
	"plinth/internal/source"
)

func parsed(name string, deps ...string) *ParsedModule {
	mod := &ast.Module{Name: name}
	for i, dep := range deps {
		start := uint32(i * 20)
		mod.Definitions = append(mod.Definitions, &ast.Use{
			Module: splitPath(dep),
			Span:   source.Span{Start: start, End: start + 10},
		})
	}
	return &ParsedModule{Name: name, Package: "acme/app", AST: mod}
}

func splitPath(p string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' {
			out = append(out, p[start:i])
			start = i + 1
		}
	}
	return out
}

func parsedSet(modules ...*ParsedModule) *ParsedModules {
	m := make(map[string]*ParsedModule, len(modules))
	for _, mod := range modules {
		m[mod.Name] = mod
	}
	return NewParsedModules(m)
}

func checkSequence(t *testing.T, set *ParsedModules, seq []string) {
	t.Helper()
	if len(seq) != set.Len() {
		t.Fatalf("sequence %v has %d entries, want %d", seq, len(seq), set.Len())
	}
	for name, m := range set.All() {
		pos := slices.Index(seq, name)
		if pos < 0 {
			t.Fatalf("module %q missing from %v", name, seq)
		}
		if slices.Index(seq[pos+1:], name) >= 0 {
			t.Fatalf("module %q appears twice in %v", name, seq)
		}
		_, deps := m.DepsForGraph()
		for _, dep := range deps {
			depPos := slices.Index(seq, dep)
			if depPos < 0 {
				continue
			}
			if depPos > pos {
				t.Fatalf("%q imports %q but comes first in %v", name, dep, seq)
			}
		}
	}
}

func cycleOf(t *testing.T, err error) []string {
	t.Helper()
	var cycle *ImportCycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected ImportCycleError, got %v", err)
	}
	return cycle.Modules
}

// every consecutive pair (wrapping around) must be an import edge
func checkClosedWalk(t *testing.T, set *ParsedModules, cycle []string) {
	t.Helper()
	if len(cycle) == 0 {
		t.Fatalf("empty cycle")
	}
	for i, name := range cycle {
		next := cycle[(i+1)%len(cycle)]
		m, ok := set.Get(name)
		if !ok {
			t.Fatalf("cycle names unknown module %q", name)
		}
		_, deps := m.DepsForGraph()
		if !slices.Contains(deps, next) {
			t.Fatalf("cycle %v uses missing edge %s -> %s", cycle, name, next)
		}
	}
}

func TestSequenceAcyclic(t *testing.T) {
	set := parsedSet(
		parsed("app/main", "app/util", "app/types", "aiken/list"),
		parsed("app/util", "app/types"),
		parsed("app/types"),
		parsed("app/extra", "app/main"),
	)

	seq, err := set.Sequence()
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	checkSequence(t, set, seq)
	if seq[0] != "app/types" || seq[len(seq)-1] != "app/extra" {
		t.Fatalf("sequence = %v", seq)
	}
}

func TestSequenceDisconnectedChains(t *testing.T) {
	set := parsedSet(
		parsed("a", "b"),
		parsed("b"),
		parsed("c", "d"),
		parsed("d"),
	)

	seq, err := set.Sequence()
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	checkSequence(t, set, seq)
	if slices.Index(seq, "b") > slices.Index(seq, "a") || slices.Index(seq, "d") > slices.Index(seq, "c") {
		t.Fatalf("dependencies must come first: %v", seq)
	}
}

func TestSequenceIsStable(t *testing.T) {
	build := func() *ParsedModules {
		return parsedSet(parsed("x", "z"), parsed("y", "z"), parsed("z"), parsed("w"))
	}
	first, err := build().Sequence()
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	for range 20 {
		again, err := build().Sequence()
		if err != nil {
			t.Fatalf("Sequence: %v", err)
		}
		if !slices.Equal(first, again) {
			t.Fatalf("sequence changed between runs: %v vs %v", first, again)
		}
	}
}

func TestSequenceToleratesDuplicateImports(t *testing.T) {
	set := parsedSet(parsed("a", "b", "b", "b"), parsed("b"))
	seq, err := set.Sequence()
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	if !slices.Equal(seq, []string{"b", "a"}) {
		t.Fatalf("sequence = %v", seq)
	}
}

func TestSequenceTwoModuleCycle(t *testing.T) {
	set := parsedSet(parsed("x", "y"), parsed("y", "x"))

	_, err := set.Sequence()
	cycle := cycleOf(t, err)
	if len(cycle) != 2 || !slices.Contains(cycle, "x") || !slices.Contains(cycle, "y") {
		t.Fatalf("cycle = %v, want x and y", cycle)
	}
	checkClosedWalk(t, set, cycle)
}

func TestSequenceTriangleCycle(t *testing.T) {
	set := parsedSet(parsed("a", "b"), parsed("b", "c"), parsed("c", "a"), parsed("d", "a"))

	_, err := set.Sequence()
	cycle := cycleOf(t, err)
	got := slices.Sorted(slices.Values(cycle))
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("cycle = %v, want a, b, c", cycle)
	}
	checkClosedWalk(t, set, cycle)
}

func TestSequenceSelfImport(t *testing.T) {
	set := parsedSet(parsed("m", "m"))
	_, err := set.Sequence()
	if cycle := cycleOf(t, err); !slices.Equal(cycle, []string{"m"}) {
		t.Fatalf("cycle = %v, want [m]", cycle)
	}
	if !IsImportCycle(err) {
		t.Fatalf("IsImportCycle = false")
	}
}

func TestWaves(t *testing.T) {
	set := parsedSet(parsed("a", "b"), parsed("b"), parsed("c", "a", "b"), parsed("d"))
	waves, err := set.Waves()
	if err != nil {
		t.Fatalf("Waves: %v", err)
	}
	want := [][]string{{"b", "d"}, {"a"}, {"c"}}
	if len(waves) != len(want) {
		t.Fatalf("waves = %v, want %v", waves, want)
	}
	for i := range want {
		if !slices.Equal(waves[i], want[i]) {
			t.Fatalf("waves[%d] = %v, want %v", i, waves[i], want[i])
		}
	}

	cyclic := parsedSet(parsed("a", "b"), parsed("b", "a"))
	if _, err := cyclic.Waves(); !IsImportCycle(err) {
		t.Fatalf("Waves on a cycle = %v, want import cycle", err)
	}
}

func TestParsedModulesAccess(t *testing.T) {
	set := parsedSet(parsed("b"), parsed("a"))
	if !slices.Equal(set.Names(), []string{"a", "b"}) {
		t.Fatalf("Names = %v", set.Names())
	}
	m := set.Map()
	delete(m, "a")
	if _, ok := set.Get("a"); !ok {
		t.Fatalf("Map must return a copy")
	}
	if set.Digest() != parsedSet(parsed("a"), parsed("b")).Digest() {
		t.Fatalf("digest depends on construction order")
	}
	if set.Digest() == parsedSet(parsed("a", "b"), parsed("b")).Digest() {
		t.Fatalf("digest ignores imports")
	}
}
