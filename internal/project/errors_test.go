package project

import (
	"fmt"
	"strings"
	"testing"

	"plinth/internal/diag"
	"plinth/internal/source"
)

func TestImportCycleErrorMessage(t *testing.T) {
	err := &ImportCycleError{Modules: []string{"b", "a"}}
	if got := err.Error(); got != "import cycle: b -> a -> b" {
		t.Fatalf("Error() = %q", got)
	}
	if !IsImportCycle(fmt.Errorf("build: %w", err)) {
		t.Fatalf("wrapped cycle not detected")
	}
}

func TestImportCycleErrorReport(t *testing.T) {
	set := parsedSet(parsed("x", "y"), parsed("y", "z", "x"), parsed("z"))
	err := &ImportCycleError{Modules: []string{"y", "x"}}

	bag := diag.NewBag(10)
	err.Report(diag.BagReporter{Bag: bag}, set)

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("diagnostics = %d, want 2", len(items))
	}
	for _, d := range items {
		if d.Code != diag.ProjImportCycle || d.Severity != diag.SevError {
			t.Fatalf("unexpected diagnostic %+v", d)
		}
	}
	// y imports x as its second use
	if items[0].Module != "y" || items[0].Primary != (source.Span{Start: 20, End: 30}) {
		t.Fatalf("y diagnostic = %+v", items[0])
	}
}

func TestImportCycleDiagram(t *testing.T) {
	err := &ImportCycleError{Modules: []string{"app/a", "app/b"}}
	lines := strings.Split(strings.TrimRight(err.Diagram(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("diagram has %d lines:\n%s", len(lines), err.Diagram())
	}
	if !strings.HasPrefix(lines[0], "┌") || !strings.HasPrefix(lines[len(lines)-1], "└") {
		t.Fatalf("diagram is not boxed:\n%s", err.Diagram())
	}
	if !strings.Contains(lines[2], "app/a") || !strings.Contains(lines[4], "app/b") {
		t.Fatalf("diagram order is wrong:\n%s", err.Diagram())
	}
}

func TestSelfImportReport(t *testing.T) {
	set := parsedSet(parsed("m", "m"))
	_, err := set.Sequence()
	cycle, ok := err.(*ImportCycleError)
	if !ok {
		t.Fatalf("err = %v", err)
	}
	bag := diag.NewBag(4)
	cycle.Report(diag.BagReporter{Bag: bag}, set)
	if items := bag.Items(); len(items) != 1 || items[0].Code != diag.ProjSelfImport {
		t.Fatalf("diagnostics = %+v", items)
	}
}
