package graph

import (
	"sort"

	"github.com/dominikbraun/graph"
)

// ImportClosure returns the internal files reachable from the given roots by
// following import edges transitively. Roots are always included, even when
// they have no edges. External targets never join the closure since they do
// not correspond to repository files. The result is sorted.
func ImportClosure(g *DependencyGraph, roots []string) []string {
	dg := graph.New(graph.StringHash, graph.Directed())

	for _, edge := range g.Edges {
		if edge.Origin != OriginImport || edge.External || edge.Source == edge.Target {
			continue
		}
		// Duplicate vertices and edges are expected here; the library
		// rejects them and we move on.
		_ = dg.AddVertex(edge.Source)
		_ = dg.AddVertex(edge.Target)
		_ = dg.AddEdge(edge.Source, edge.Target)
	}

	closure := make(map[string]struct{})
	for _, root := range roots {
		closure[root] = struct{}{}
		// DFS errors only when the root has no vertex, which just means
		// the file imports nothing.
		_ = graph.DFS(dg, root, func(file string) bool {
			closure[file] = struct{}{}
			return false
		})
	}

	files := make([]string, 0, len(closure))
	for file := range closure {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}
