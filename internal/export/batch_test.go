package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/repindex/repindex/internal/graph"
)

// Test Plan for the batch builders:
// - rowsOf splits a graph into file/external nodes and per-origin edge rows
// - node rows are deduplicated and sorted, external markers are stripped
// - repeated (source, target, origin) pairs merge their symbol lists
// - chunk honors the batch size and never emits empty batches

func TestRowsOf_SplitsNodesAndEdges(t *testing.T) {
	t.Parallel()

	g := graph.Assemble([]graph.Edge{
		{Source: "main.py", Target: "lib.py", Origin: graph.OriginImport, Symbols: []string{"helper"}},
		{Source: "main.py", Target: "external:numpy", Origin: graph.OriginImport, Symbols: []string{"array"}, External: true},
		{Source: "lib.py", Target: "lib.py", Origin: graph.OriginExport, Symbols: []string{"helper"}},
		{Source: "app.py", Target: "lib.py", Origin: graph.OriginImport},
	})

	rows := rowsOf(g)

	require.Len(t, rows.files, 3)
	assert.Equal(t, "app.py", rows.files[0]["path"])
	assert.Equal(t, "lib.py", rows.files[1]["path"])
	assert.Equal(t, "main.py", rows.files[2]["path"])

	require.Len(t, rows.externals, 1)
	assert.Equal(t, "numpy", rows.externals[0]["name"])

	require.Len(t, rows.importsInternal, 2)
	assert.Equal(t, "main.py", rows.importsInternal[0]["source"])
	assert.Equal(t, "lib.py", rows.importsInternal[0]["target"])
	assert.Equal(t, []interface{}{"helper"}, rows.importsInternal[0]["objects"])
	assert.Equal(t, "app.py", rows.importsInternal[1]["source"])
	assert.Equal(t, []interface{}{}, rows.importsInternal[1]["objects"])

	require.Len(t, rows.importsExternal, 1)
	assert.Equal(t, "main.py", rows.importsExternal[0]["source"])
	assert.Equal(t, "numpy", rows.importsExternal[0]["target"], "external marker should be stripped")

	require.Len(t, rows.exports, 1)
	assert.Equal(t, "lib.py", rows.exports[0]["source"])
	assert.Equal(t, "lib.py", rows.exports[0]["target"])
	assert.Equal(t, []interface{}{"helper"}, rows.exports[0]["objects"])
}

func TestRowsOf_MergesSymbolsPerPair(t *testing.T) {
	t.Parallel()

	g := graph.Assemble([]graph.Edge{
		{Source: "a.ts", Target: "b.ts", Origin: graph.OriginImport, Symbols: []string{"x"}},
		{Source: "a.ts", Target: "b.ts", Origin: graph.OriginImport, Symbols: []string{"y", "x"}},
	})

	rows := rowsOf(g)

	require.Len(t, rows.importsInternal, 1)
	assert.Equal(t, []interface{}{"x", "y"}, rows.importsInternal[0]["objects"])
}

func TestRowsOf_EmptyGraph(t *testing.T) {
	t.Parallel()

	rows := rowsOf(graph.Assemble(nil))

	assert.Empty(t, rows.files)
	assert.Empty(t, rows.externals)
	assert.Empty(t, rows.importsInternal)
	assert.Empty(t, rows.importsExternal)
	assert.Empty(t, rows.exports)
}

func TestChunk(t *testing.T) {
	t.Parallel()

	rows := []map[string]interface{}{
		{"path": "a"}, {"path": "b"}, {"path": "c"}, {"path": "d"}, {"path": "e"},
	}

	batches := chunk(rows, 2)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)
	assert.Equal(t, "e", batches[2][0]["path"])

	assert.Nil(t, chunk(nil, 2))
	assert.Len(t, chunk(rows, 100), 1)
}
