package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/repindex/repindex/internal/graph"
)

// DependencyQuerier is the interface for graph query operations.
type DependencyQuerier interface {
	Query(ctx context.Context, req *graph.QueryRequest) (*graph.QueryResponse, error)
}

// AddDependenciesTool registers the repindex_dependencies tool with an MCP
// server.
func AddDependenciesTool(s *server.MCPServer, querier DependencyQuerier) {
	tool := mcp.NewTool(
		"repindex_dependencies",
		mcp.WithDescription("Query file-level dependency relationships in the indexed repository. Direction 'imports' lists the files a file depends on; 'importers' lists the files that depend on it. Results carry the referenced symbols."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Repository-relative file path (e.g. 'src/app.ts')")),
		mcp.WithString("direction",
			mcp.Description("'imports' (outgoing, default) or 'importers' (incoming)")),
		mcp.WithNumber("depth",
			mcp.Description("Traversal depth for transitive queries (default: 1, max: 10)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default: 100)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createDependenciesHandler(querier))
}

// dependenciesArgs are the bound arguments of the repindex_dependencies tool.
type dependenciesArgs struct {
	File       string `json:"file"`
	Direction  string `json:"direction"`
	Depth      int    `json:"depth"`
	MaxResults int    `json:"max_results"`
}

// createDependenciesHandler creates the handler function for the
// repindex_dependencies tool.
func createDependenciesHandler(querier DependencyQuerier) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args dependenciesArgs
		if err := bindArguments(argsMap, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		if args.File == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}

		operation := graph.OperationDependencies
		switch args.Direction {
		case "", "imports":
		case "importers":
			operation = graph.OperationDependents
		default:
			return mcp.NewToolResultError(fmt.Sprintf("invalid direction: %s (must be 'imports' or 'importers')", args.Direction)), nil
		}

		req := &graph.QueryRequest{
			Operation:  operation,
			Target:     normalizePath(args.File),
			Depth:      args.Depth,
			MaxResults: args.MaxResults,
		}

		response, err := querier.Query(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("dependency query failed: %w", err)
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
