package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"plinth/internal/diag"
	"plinth/internal/source"
)

// ImportCycleError reports modules that import each other in a loop. Modules
// lists one concrete cycle: each module imports the next one and the last
// imports the first.
type ImportCycleError struct {
	Modules []string
}

func (e *ImportCycleError) Error() string {
	if len(e.Modules) == 0 {
		return "import cycle"
	}
	path := make([]string, 0, len(e.Modules)+1)
	path = append(path, e.Modules...)
	path = append(path, e.Modules[0])
	return "import cycle: " + strings.Join(path, " -> ")
}

// IsImportCycle reports whether err is or wraps an *ImportCycleError.
func IsImportCycle(err error) bool {
	var cycle *ImportCycleError
	return errors.As(err, &cycle)
}

// Report emits one ProjImportCycle diagnostic per module on the cycle,
// pointing at the import that continues it when modules is known. A module
// importing itself gets ProjSelfImport.
func (e *ImportCycleError) Report(r diag.Reporter, modules *ParsedModules) {
	if r == nil || len(e.Modules) == 0 {
		return
	}
	if len(e.Modules) == 1 {
		name := e.Modules[0]
		diag.ReportError(r, diag.ProjSelfImport, name, importSpan(modules, name, name),
			fmt.Sprintf("module %q imports itself", name)).Emit()
		return
	}
	summary := strings.Join(e.Modules, " -> ")
	for i, name := range e.Modules {
		next := e.Modules[(i+1)%len(e.Modules)]
		span := importSpan(modules, name, next)
		msg := fmt.Sprintf("module %q participates in an import cycle: %s", name, summary)
		diag.ReportError(r, diag.ProjImportCycle, name, span, msg).
			WithNote(name, span, fmt.Sprintf("%q imports %q here", name, next)).
			Emit()
	}
}

func importSpan(modules *ParsedModules, from, to string) source.Span {
	if modules == nil {
		return source.Span{}
	}
	m, ok := modules.Get(from)
	if !ok {
		return source.Span{}
	}
	for _, dep := range m.AST.Dependencies() {
		if dep.Name == to {
			return dep.Location
		}
	}
	return source.Span{}
}

// Diagram draws the cycle as a closed loop:
//
//	┌─────┐
//	│     ↓
//	│    a
//	│     ↓
//	│    b
//	│     ↓
//	└─────┘
func (e *ImportCycleError) Diagram() string {
	width := 5
	for _, name := range e.Modules {
		width = max(width, runewidth.StringWidth(name)+4)
	}
	arrow := "│" + strings.Repeat(" ", width/2) + "↓\n"

	var sb strings.Builder
	sb.WriteString("┌" + strings.Repeat("─", width) + "┐\n")
	sb.WriteString(arrow)
	for _, name := range e.Modules {
		sb.WriteString("│    " + name + "\n")
		sb.WriteString(arrow)
	}
	sb.WriteString("└" + strings.Repeat("─", width) + "┘\n")
	return sb.String()
}
