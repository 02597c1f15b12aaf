package ast

import (
	"strings"

	"plinth/internal/source"
)

// Module is the syntax tree of one compilation unit. The same shape is used
// before and after type checking; checked modules carry resolved types on
// their definitions.
type Module struct {
	Name        string
	Docs        []string
	Definitions []Definition
}

// Dependency is a module path referenced by a use declaration.
type Dependency struct {
	Name     string
	Location source.Span
}

// Dependencies lists imported module names in declaration order.
// Repeated imports of the same module are reported each time.
func (m *Module) Dependencies() []Dependency {
	if m == nil {
		return nil
	}
	deps := make([]Dependency, 0, len(m.Definitions))
	for _, def := range m.Definitions {
		use, ok := def.(*Use)
		if !ok || len(use.Module) == 0 {
			continue
		}
		deps = append(deps, Dependency{
			Name:     strings.Join(use.Module, "/"),
			Location: use.Span,
		})
	}
	return deps
}

// Validators returns the validator definitions of the module in source order.
func (m *Module) Validators() []*Validator {
	if m == nil {
		return nil
	}
	var out []*Validator
	for _, def := range m.Definitions {
		if v, ok := def.(*Validator); ok {
			out = append(out, v)
		}
	}
	return out
}

// FindDefinition returns the top-level definition whose span contains byteIndex.
// Definitions without a location (empty span) never match.
func (m *Module) FindDefinition(byteIndex uint32) (Definition, bool) {
	if m == nil {
		return nil, false
	}
	for _, def := range m.Definitions {
		loc := def.Location()
		if !loc.Empty() && loc.Contains(byteIndex) {
			return def, true
		}
	}
	return nil, false
}
