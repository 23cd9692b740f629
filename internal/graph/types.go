package graph

import (
	"sort"
	"strings"
)

// Origin tags which side of a relationship produced an edge.
type Origin string

const (
	OriginImport Origin = "import"
	OriginExport Origin = "export"
)

// ExternalPrefix marks edge targets that do not resolve to a repository file.
const ExternalPrefix = "external:"

// IsExternal reports whether a target carries the external marker.
func IsExternal(target string) bool {
	return strings.HasPrefix(target, ExternalPrefix)
}

// ExternalName strips the external marker, returning the reference as
// written. Internal targets come back unchanged.
func ExternalName(target string) string {
	return strings.TrimPrefix(target, ExternalPrefix)
}

// Edge is one directed, symbol-annotated relationship between repository
// files. Target is either a repository-relative path or an "external:<name>"
// marker, never a dangling reference. Export edges are self-referential: the
// declaring file is both source and target.
type Edge struct {
	Source   string
	Target   string
	Origin   Origin
	Symbols  []string
	External bool
}

// key returns the collapse identity: source, target, origin and the symbol
// set (order-insensitive).
func (e Edge) key() string {
	syms := append([]string(nil), e.Symbols...)
	sort.Strings(syms)
	return e.Source + "\x00" + e.Target + "\x00" + string(e.Origin) + "\x00" + strings.Join(syms, "\x1f")
}

// DependencyGraph is the single source of truth for one run: the ordered edge
// list plus adjacency derived from it. All projections are views over this
// structure; none is computed independently.
type DependencyGraph struct {
	Edges    []Edge
	Outgoing map[string][]int // source -> edge indexes, insertion order
	Incoming map[string][]int // target -> edge indexes, insertion order
}

// Sources returns the source files in deterministic (sorted) order.
func (g *DependencyGraph) Sources() []string {
	out := make([]string, 0, len(g.Outgoing))
	for s := range g.Outgoing {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Mode selects a projection of the dependency graph.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeImportsOnly Mode = "imports_only"
	ModeExportsOnly Mode = "exports_only"
	ModeNoObjects   Mode = "no_objects"
)

// Modes lists every projection, in artifact order.
var Modes = []Mode{ModeFull, ModeImportsOnly, ModeExportsOnly, ModeNoObjects}

// Filename returns the artifact name a projection is stored under.
func (m Mode) Filename() string {
	switch m {
	case ModeImportsOnly:
		return "dependency_graph_imports.json"
	case ModeExportsOnly:
		return "dependency_graph_exports.json"
	case ModeNoObjects:
		return "dependency_graph_no_objects.json"
	default:
		return "dependency_graph_full.json"
	}
}

// Relationship is one serialized edge, as read back from a graph artifact.
// Objects is nil for entries from the no-objects projection.
type Relationship struct {
	Target  string   `json:"target"`
	Objects []string `json:"objects"`
	Type    Origin   `json:"type"`
}
