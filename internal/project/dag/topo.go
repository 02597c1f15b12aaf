package dag

import (
	"fmt"
	"slices"
)

// CycleError reports that the graph is not acyclic. Node lies on a cycle.
type CycleError struct {
	Node ModuleID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph has a cycle through node %d", e.Node)
}

const (
	white = iota // не посещён
	gray         // на стеке обхода
	black        // завершён
)

// Toposort orders nodes so that for every edge A→B, A comes before B.
// Roots are visited in ascending id order and neighbours in native edge
// order, so the result is a pure function of the graph. On a cycle the
// returned error carries the node closing the first back edge found.
func Toposort(g Graph) ([]ModuleID, error) {
	n := g.Len()
	color := make([]uint8, n)
	post := make([]ModuleID, 0, n)

	type frame struct {
		node ModuleID
		next int
	}
	stack := make([]frame, 0, n)

	for root := range n {
		if color[root] != white {
			continue
		}
		rootID := toID(root)
		color[root] = gray
		stack = append(stack, frame{node: rootID})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := g.Edges[int(top.node)]
			if top.next == len(edges) {
				color[int(top.node)] = black
				post = append(post, top.node)
				stack = stack[:len(stack)-1]
				continue
			}
			to := edges[top.next]
			top.next++
			switch color[int(to)] {
			case gray:
				return nil, &CycleError{Node: to}
			case white:
				color[int(to)] = gray
				stack = append(stack, frame{node: to})
			}
		}
	}

	slices.Reverse(post)
	return post, nil
}

// Waves groups nodes into batches where every node's imports live in
// earlier batches, so the nodes of one batch can be processed concurrently.
// Nodes inside a batch are sorted by id. Nodes on or behind a cycle are not
// scheduled and come back in rest.
func Waves(g Graph) (batches [][]ModuleID, rest []ModuleID) {
	n := g.Len()
	pending := make([]int, n)
	importers := make([][]ModuleID, n)
	for from, edges := range g.Edges {
		pending[from] = len(edges)
		for _, to := range edges {
			importers[int(to)] = append(importers[int(to)], toID(from))
		}
	}

	current := make([]ModuleID, 0, n)
	for i := range n {
		if pending[i] == 0 {
			current = append(current, toID(i))
		}
	}

	scheduled := 0
	for len(current) > 0 {
		batch := current
		batches = append(batches, batch)
		scheduled += len(batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			for _, from := range importers[int(id)] {
				pending[int(from)]--
				if pending[int(from)] == 0 {
					next = append(next, from)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if scheduled != n {
		for i := range n {
			if pending[i] > 0 {
				rest = append(rest, toID(i))
			}
		}
	}
	return batches, rest
}
