package graph

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Projection is a pure, filtered view over one DependencyGraph. Projections
// share the graph's edge storage; nothing is recomputed from inputs, which
// keeps the four artifacts mutually consistent by construction.
type Projection struct {
	mode  Mode
	graph *DependencyGraph
}

// Project returns the requested view of the graph.
func Project(g *DependencyGraph, mode Mode) Projection {
	return Projection{mode: mode, graph: g}
}

// Mode returns the projection's mode.
func (p Projection) Mode() Mode { return p.mode }

// edgeIndexes returns the edge indexes included in this projection for one
// source, in insertion order. The no-objects mode deduplicates
// (target, origin) pairs.
func (p Projection) edgeIndexes(source string) []int {
	idxs := p.graph.Outgoing[source]

	switch p.mode {
	case ModeImportsOnly, ModeExportsOnly:
		want := OriginImport
		if p.mode == ModeExportsOnly {
			want = OriginExport
		}
		out := make([]int, 0, len(idxs))
		for _, i := range idxs {
			if p.graph.Edges[i].Origin == want {
				out = append(out, i)
			}
		}
		return out

	case ModeNoObjects:
		type pair struct {
			target string
			origin Origin
		}
		seen := make(map[pair]bool, len(idxs))
		out := make([]int, 0, len(idxs))
		for _, i := range idxs {
			e := p.graph.Edges[i]
			k := pair{e.Target, e.Origin}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, i)
		}
		return out

	default:
		return idxs
	}
}

// relJSON is the serialized edge shape carrying symbols.
type relJSON struct {
	Target  string   `json:"target"`
	Objects []string `json:"objects"`
	Type    Origin   `json:"type"`
}

// pairJSON is the no-objects shape: source/target pairs only.
type pairJSON struct {
	Target string `json:"target"`
	Type   Origin `json:"type"`
}

// MarshalJSON serializes the projection as a map from file path to its
// relationship list. Map keys marshal sorted, so output is reproducible.
// Artifact files add indentation at write time.
func (p Projection) MarshalJSON() ([]byte, error) {
	out := make(map[string][]interface{}, len(p.graph.Outgoing))
	for source := range p.graph.Outgoing {
		idxs := p.edgeIndexes(source)
		if len(idxs) == 0 {
			continue
		}
		rels := make([]interface{}, 0, len(idxs))
		for _, i := range idxs {
			e := p.graph.Edges[i]
			if p.mode == ModeNoObjects {
				rels = append(rels, pairJSON{Target: e.Target, Type: e.Origin})
				continue
			}
			objects := e.Symbols
			if objects == nil {
				objects = []string{}
			}
			rels = append(rels, relJSON{Target: e.Target, Objects: objects, Type: e.Origin})
		}
		out[source] = rels
	}
	return json.Marshal(out)
}

// DecodeProjection parses a serialized projection back into its mapping.
// Entries without an "objects" key decode with nil Objects.
func DecodeProjection(data []byte) (map[string][]Relationship, error) {
	var out map[string][]Relationship
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse dependency graph: %w", err)
	}
	return out, nil
}

// EdgesOf rebuilds the edge list from a decoded mapping, in the order the
// lists carry. Targets with the external marker keep their flag. This is how
// consumers (context queries, exporters) reconstruct a graph from artifacts.
func EdgesOf(rels map[string][]Relationship) []Edge {
	sources := make([]string, 0, len(rels))
	for s := range rels {
		sources = append(sources, s)
	}
	// Decoded maps lose file order; sorted keys keep reconstruction stable.
	sort.Strings(sources)

	var edges []Edge
	for _, source := range sources {
		for _, rel := range rels[source] {
			edges = append(edges, Edge{
				Source:   source,
				Target:   rel.Target,
				Origin:   rel.Type,
				Symbols:  rel.Objects,
				External: IsExternal(rel.Target),
			})
		}
	}
	return edges
}
