package dag

// Graph is the import graph over indexed modules. Edges[from] lists the
// modules imported by from, in the order the imports were first declared.
type Graph struct {
	Edges [][]ModuleID
}

// Input is one module's import list as extracted from its syntax tree.
type Input struct {
	Name string
	Deps []string
}

// BuildGraph adds an edge from every module to each of its imports. Imports
// of modules outside idx are dropped: they are resolved by another run.
// Repeated imports collapse into a single edge; a self-import is kept as a
// self-loop.
func BuildGraph(idx ModuleIndex, inputs []Input) Graph {
	g := Graph{Edges: make([][]ModuleID, idx.Len())}

	for _, in := range inputs {
		from, ok := idx.Lookup(in.Name)
		if !ok || len(in.Deps) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(in.Deps))
		for _, id := range g.Edges[from] {
			seen[id] = struct{}{}
		}
		for _, dep := range in.Deps {
			to, ok := idx.Lookup(dep)
			if !ok {
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[from] = append(g.Edges[from], to)
		}
	}

	return g
}

// Len returns the number of nodes.
func (g Graph) Len() int {
	return len(g.Edges)
}

// Neighbors returns the outgoing edges of id in native order.
func (g Graph) Neighbors(id ModuleID) []ModuleID {
	return g.Edges[int(id)]
}

// HasEdge reports whether from imports to.
func (g Graph) HasEdge(from, to ModuleID) bool {
	for _, id := range g.Edges[int(from)] {
		if id == to {
			return true
		}
	}
	return false
}
