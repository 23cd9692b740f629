package export

import (
	"sort"

	"github.com/repindex/repindex/internal/graph"
)

// graphRows holds the UNWIND parameter rows for one export, one slice per
// Cypher statement. Node rows are deduplicated and sorted; relationship rows
// are aggregated per (source, target, origin) pair with symbol lists merged
// in first-seen order, since Neo4j keeps a single relationship per pair.
type graphRows struct {
	files           []map[string]interface{}
	externals       []map[string]interface{}
	importsInternal []map[string]interface{}
	importsExternal []map[string]interface{}
	exports         []map[string]interface{}
}

func rowsOf(g *graph.DependencyGraph) graphRows {
	fileSet := make(map[string]bool)
	externalSet := make(map[string]bool)

	type pair struct {
		source, target string
		origin         graph.Origin
	}
	order := []pair{}
	symbols := make(map[pair][]string)
	seenSymbol := make(map[pair]map[string]bool)

	for _, e := range g.Edges {
		fileSet[e.Source] = true
		if e.External {
			externalSet[graph.ExternalName(e.Target)] = true
		} else {
			fileSet[e.Target] = true
		}

		p := pair{source: e.Source, target: e.Target, origin: e.Origin}
		if _, ok := symbols[p]; !ok {
			order = append(order, p)
			symbols[p] = []string{}
			seenSymbol[p] = make(map[string]bool)
		}
		for _, s := range e.Symbols {
			if !seenSymbol[p][s] {
				seenSymbol[p][s] = true
				symbols[p] = append(symbols[p], s)
			}
		}
	}

	rows := graphRows{}
	for _, f := range sortedKeys(fileSet) {
		rows.files = append(rows.files, map[string]interface{}{"path": f})
	}
	for _, name := range sortedKeys(externalSet) {
		rows.externals = append(rows.externals, map[string]interface{}{"name": name})
	}

	for _, p := range order {
		row := map[string]interface{}{
			"source":  p.source,
			"target":  graph.ExternalName(p.target),
			"objects": symbolList(symbols[p]),
		}
		switch {
		case p.origin == graph.OriginExport:
			rows.exports = append(rows.exports, row)
		case graph.IsExternal(p.target):
			rows.importsExternal = append(rows.importsExternal, row)
		default:
			rows.importsInternal = append(rows.importsInternal, row)
		}
	}

	return rows
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// symbolList converts a symbol slice into the element type the driver packs.
func symbolList(symbols []string) []interface{} {
	out := make([]interface{}, len(symbols))
	for i, s := range symbols {
		out[i] = s
	}
	return out
}

// chunk splits rows into batches of at most size entries each.
func chunk(rows []map[string]interface{}, size int) [][]map[string]interface{} {
	if len(rows) == 0 {
		return nil
	}
	var batches [][]map[string]interface{}
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		batches = append(batches, rows[start:end])
	}
	return batches
}
