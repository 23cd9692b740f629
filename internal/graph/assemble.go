package graph

// Assemble builds the dependency graph from the multiset of resolved edges.
// Exact duplicates (same source, target, origin, symbol set) collapse to one,
// first appearance wins. Everything else passes through unchanged in input
// order, self-edges included.
func Assemble(edges []Edge) *DependencyGraph {
	g := &DependencyGraph{
		Edges:    make([]Edge, 0, len(edges)),
		Outgoing: make(map[string][]int),
		Incoming: make(map[string][]int),
	}

	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		k := e.key()
		if seen[k] {
			continue
		}
		seen[k] = true

		idx := len(g.Edges)
		g.Edges = append(g.Edges, e)
		g.Outgoing[e.Source] = append(g.Outgoing[e.Source], idx)
		g.Incoming[e.Target] = append(g.Incoming[e.Target], idx)
	}
	return g
}
