package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/repindex/repindex/internal/indexer"
	"github.com/repindex/repindex/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo]",
	Short: "Start the MCP server for dependency queries",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants query the indexed dependency graph.

The MCP server:
- Loads the serialized graph from <output>/repindex/
- Provides the repindex_dependencies and repindex_context tools
- Reloads automatically when the graph artifacts change
- Communicates via stdio (standard MCP transport)

Example:
  repindex mcp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve repository path: %w", err)
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	graphDir := cfg.MCP.GraphDir
	if graphDir == "" {
		graphDir = filepath.Join(cfg.Output, indexer.ArtifactDirName)
	}
	absGraphDir, err := filepath.Abs(graphDir)
	if err != nil {
		return fmt.Errorf("failed to resolve graph directory: %w", err)
	}

	// Startup information goes to stderr, stdout carries the protocol.
	fmt.Fprintf(os.Stderr, "repindex MCP Server\n")
	fmt.Fprintf(os.Stderr, "Repository: %s\n", absRoot)
	fmt.Fprintf(os.Stderr, "Graph: %s\n", absGraphDir)
	fmt.Fprintf(os.Stderr, "\n")

	server, err := mcp.NewServer(ctx, &mcp.ServerConfig{
		RootDir:   absRoot,
		GraphDir:  absGraphDir,
		CacheSize: cfg.MCP.CacheSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
