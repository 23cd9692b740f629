package mcp

// Test Plan for the repindex_dependencies tool:
// 1. Registration does not panic
// 2. Default direction lists imports with their symbols
// 3. direction=importers walks incoming edges
// 4. depth=2 reaches transitive dependencies, externals flagged
// 5. A string-encoded depth binds like a float64 one
// 6. Missing file and invalid direction produce error results

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/repindex/repindex/internal/graph"
)

// newTestSearcher stores a small graph and the matching source files, then
// opens a searcher over them.
func newTestSearcher(t *testing.T) graph.Searcher {
	t.Helper()

	rootDir := t.TempDir()
	graphDir := filepath.Join(rootDir, "out", "repindex")

	storage, err := graph.NewStorage(graphDir)
	require.NoError(t, err)

	g := graph.Assemble([]graph.Edge{
		{Source: "main.py", Target: "lib.py", Origin: graph.OriginImport, Symbols: []string{"helper"}},
		{Source: "lib.py", Target: "external:os", Origin: graph.OriginImport, Symbols: []string{"path"}, External: true},
		{Source: "lib.py", Target: "lib.py", Origin: graph.OriginExport, Symbols: []string{"helper"}},
	})
	require.NoError(t, storage.Save(g))

	files := map[string]string{
		"main.py": "from lib import helper\n\nhelper()\n",
		"lib.py":  "import os\n\n\ndef helper():\n    return os.path\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(rootDir, name), []byte(content), 0644))
	}

	searcher, err := graph.NewSearcher(storage, rootDir, 0)
	require.NoError(t, err)
	t.Cleanup(func() { searcher.Close() })

	return searcher
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "should be text content")
	return textContent.Text
}

func TestAddDependenciesTool_Registration(t *testing.T) {
	t.Parallel()

	mcpServer := server.NewMCPServer("test-server", "1.0.0", server.WithToolCapabilities(true))
	searcher := newTestSearcher(t)

	require.NotPanics(t, func() {
		AddDependenciesTool(mcpServer, searcher)
	})
}

func TestDependenciesHandler_Imports(t *testing.T) {
	t.Parallel()

	handler := createDependenciesHandler(newTestSearcher(t))
	result := callTool(t, handler, map[string]interface{}{"file": "main.py"})
	require.False(t, result.IsError)

	var response graph.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.Equal(t, "dependencies", response.Operation)
	assert.Equal(t, "main.py", response.Target)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "lib.py", response.Results[0].File)
	assert.Equal(t, []string{"helper"}, response.Results[0].Symbols)
	assert.False(t, response.Results[0].External)
}

func TestDependenciesHandler_Importers(t *testing.T) {
	t.Parallel()

	handler := createDependenciesHandler(newTestSearcher(t))
	result := callTool(t, handler, map[string]interface{}{
		"file":      "lib.py",
		"direction": "importers",
	})
	require.False(t, result.IsError)

	var response graph.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.Equal(t, "dependents", response.Operation)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "main.py", response.Results[0].File)
}

func TestDependenciesHandler_TransitiveDepth(t *testing.T) {
	t.Parallel()

	handler := createDependenciesHandler(newTestSearcher(t))
	result := callTool(t, handler, map[string]interface{}{
		"file":  "main.py",
		"depth": float64(2),
	})
	require.False(t, result.IsError)

	var response graph.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	require.Len(t, response.Results, 2)
	assert.Equal(t, "lib.py", response.Results[0].File)
	assert.Equal(t, 1, response.Results[0].Depth)
	assert.Equal(t, "external:os", response.Results[1].File)
	assert.Equal(t, 2, response.Results[1].Depth)
	assert.True(t, response.Results[1].External)
}

func TestDependenciesHandler_StringEncodedDepth(t *testing.T) {
	t.Parallel()

	handler := createDependenciesHandler(newTestSearcher(t))
	result := callTool(t, handler, map[string]interface{}{
		"file":  "main.py",
		"depth": "2",
	})
	require.False(t, result.IsError)

	var response graph.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	require.Len(t, response.Results, 2)
}

func TestDependenciesHandler_MissingFile(t *testing.T) {
	t.Parallel()

	handler := createDependenciesHandler(newTestSearcher(t))
	result := callTool(t, handler, map[string]interface{}{"direction": "imports"})

	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "file parameter is required")
}

func TestDependenciesHandler_InvalidDirection(t *testing.T) {
	t.Parallel()

	handler := createDependenciesHandler(newTestSearcher(t))
	result := callTool(t, handler, map[string]interface{}{
		"file":      "main.py",
		"direction": "sideways",
	})

	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid direction")
}
