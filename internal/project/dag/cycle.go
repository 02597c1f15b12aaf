package dag

// FindCycle returns one closed walk that starts and ends at origin, listed
// from origin's successor up to and including origin itself. Neighbours are
// tried in native edge order and the first path back to origin wins. Nodes
// are visited at most once. Returns nil when origin is not on a cycle.
func FindCycle(g Graph, origin ModuleID) []ModuleID {
	type frame struct {
		node ModuleID
		next int
	}

	seen := make(map[ModuleID]struct{}, g.Len())
	seen[origin] = struct{}{}
	stack := []frame{{node: origin}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		edges := g.Neighbors(top.node)
		if top.next == len(edges) {
			stack = stack[:len(stack)-1]
			continue
		}
		to := edges[top.next]
		top.next++

		if to == origin {
			path := make([]ModuleID, 0, len(stack))
			for _, f := range stack[1:] {
				path = append(path, f.node)
			}
			return append(path, origin)
		}
		if _, ok := seen[to]; ok {
			continue
		}
		seen[to] = struct{}{}
		stack = append(stack, frame{node: to})
	}

	return nil
}
