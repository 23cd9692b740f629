package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/repindex/repindex/internal/classify"
	"github.com/repindex/repindex/internal/extract"
	"github.com/repindex/repindex/internal/graph"
	"github.com/repindex/repindex/internal/indexer"
)

// ContextProvider supplies the graph snapshot and file contents the context
// document is assembled from.
type ContextProvider interface {
	Snapshot() *graph.DependencyGraph
	Content(relPath string) (string, error)
}

// AddContextTool registers the repindex_context tool with an MCP server.
func AddContextTool(s *server.MCPServer, provider ContextProvider) {
	tool := mcp.NewTool(
		"repindex_context",
		mcp.WithDescription("Assemble a markdown context document for a set of files: the transitive import closure, then every involved file's content and structure. Useful for handing a complete working set to an LLM."),
		mcp.WithArray("files",
			mcp.Required(),
			mcp.Description("Repository-relative file paths (e.g. ['src/app.ts', 'src/api.ts'])")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createContextHandler(provider))
}

// contextArgs are the bound arguments of the repindex_context tool.
type contextArgs struct {
	Files []string `json:"files"`
}

// createContextHandler creates the handler function for the repindex_context
// tool.
func createContextHandler(provider ContextProvider) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args contextArgs
		if err := bindArguments(argsMap, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if len(args.Files) == 0 {
			return mcp.NewToolResultError("files parameter is required"), nil
		}

		files := make([]string, 0, len(args.Files))
		for _, f := range args.Files {
			files = append(files, normalizePath(f))
		}

		g := provider.Snapshot()

		// Structures are rebuilt on demand; the serialized graph carries
		// only edges.
		involved := graph.ImportClosure(g, files)
		extractions := make(map[string]indexer.Extraction, len(involved))
		for _, f := range involved {
			tag := classify.Classify(f)
			if !tag.Extractable() {
				continue
			}
			content, err := provider.Content(f)
			if err != nil {
				continue
			}
			_, exports := extract.Extract(content, tag)
			extractions[f] = indexer.Extraction{
				Tag:       tag,
				Exports:   exports,
				Structure: extract.StructureOf(f, content, exports),
			}
		}

		doc := indexer.ContextDoc(files, g, extractions, provider.Content)
		return mcp.NewToolResultText(doc), nil
	}
}

// normalizePath cleans a caller-supplied path into the repository-relative
// slash form the graph uses.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
