package project

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"plinth/internal/ast"
	"plinth/internal/project/dag"
	"plinth/internal/source"
)

// ModuleExtra carries comment spans collected by the parser. The project
// layer keeps it alongside the module and never inspects it.
type ModuleExtra struct {
	ModuleComments []source.Span
	DocComments    []source.Span
	Comments       []source.Span
}

// ParsedModule is a module before type checking.
type ParsedModule struct {
	Path    string
	Name    string
	Code    string
	Kind    ModuleKind
	Package string
	AST     *ast.Module
	Extra   ModuleExtra
}

// DepsForGraph returns the module name and the names it imports.
func (m *ParsedModule) DepsForGraph() (string, []string) {
	deps := m.AST.Dependencies()
	names := make([]string, len(deps))
	for i, dep := range deps {
		names[i] = dep.Name
	}
	return m.Name, names
}

// ParsedModules is the set of modules of one compilation run, keyed by name.
// It is filled once and then only read.
type ParsedModules struct {
	modules map[string]*ParsedModule
}

// NewParsedModules wraps modules. The map is owned by the result afterwards.
func NewParsedModules(modules map[string]*ParsedModule) *ParsedModules {
	if modules == nil {
		modules = make(map[string]*ParsedModule)
	}
	return &ParsedModules{modules: modules}
}

// Get returns the module called name.
func (p *ParsedModules) Get(name string) (*ParsedModule, bool) {
	m, ok := p.modules[name]
	return m, ok
}

func (p *ParsedModules) Len() int {
	return len(p.modules)
}

// Names returns every module name in ascending order.
func (p *ParsedModules) Names() []string {
	return slices.Sorted(maps.Keys(p.modules))
}

// All iterates modules in ascending name order.
func (p *ParsedModules) All() iter.Seq2[string, *ParsedModule] {
	return func(yield func(string, *ParsedModule) bool) {
		for _, name := range p.Names() {
			if !yield(name, p.modules[name]) {
				return
			}
		}
	}
}

// Map returns a shallow copy of the underlying map.
func (p *ParsedModules) Map() map[string]*ParsedModule {
	return maps.Clone(p.modules)
}

func (p *ParsedModules) graph() (dag.ModuleIndex, dag.Graph) {
	names := p.Names()
	inputs := make([]dag.Input, 0, len(names))
	for _, name := range names {
		_, deps := p.modules[name].DepsForGraph()
		inputs = append(inputs, dag.Input{Name: name, Deps: deps})
	}
	idx := dag.BuildIndex(names)
	return idx, dag.BuildGraph(idx, inputs)
}

// Sequence returns every module name once, each after all the modules it
// imports. Imports of modules outside the set are ignored. When the imports
// form a cycle the error is an *ImportCycleError.
func (p *ParsedModules) Sequence() ([]string, error) {
	idx, g := p.graph()

	order, err := dag.Toposort(g)
	if err != nil {
		var cycle *dag.CycleError
		if !errors.As(err, &cycle) {
			return nil, err
		}
		return nil, &ImportCycleError{Modules: idx.Names(dag.FindCycle(g, cycle.Node))}
	}

	slices.Reverse(order)
	return idx.Names(order), nil
}

// Waves groups modules into batches that only import modules from earlier
// batches; the modules of one batch may be checked concurrently.
func (p *ParsedModules) Waves() ([][]string, error) {
	idx, g := p.graph()

	batches, rest := dag.Waves(g)
	if len(rest) > 0 {
		if _, err := p.Sequence(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%d modules left unscheduled", len(rest))
	}

	out := make([][]string, len(batches))
	for i, batch := range batches {
		out[i] = idx.Names(batch)
	}
	return out, nil
}
