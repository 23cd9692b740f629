package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/repindex/repindex/internal/graph"
)

// ServerConfig configures the MCP server.
type ServerConfig struct {
	RootDir   string // repository root, used to serve file contents
	GraphDir  string // directory holding the serialized graph artifacts
	CacheSize int    // file content cache capacity in bytes, zero means default
}

// Server manages the MCP server lifecycle: the graph searcher, the artifact
// watcher that reloads it, and the stdio transport.
type Server struct {
	config   *ServerConfig
	searcher graph.Searcher
	watcher  *GraphWatcher
	mcp      *server.MCPServer
}

// NewServer creates an MCP server exposing dependency queries over the
// serialized graph.
func NewServer(ctx context.Context, config *ServerConfig) (*Server, error) {
	if config == nil {
		return nil, fmt.Errorf("server config is required")
	}

	storage, err := graph.NewStorage(config.GraphDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph storage: %w", err)
	}

	searcher, err := graph.NewSearcher(storage, config.RootDir, config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create searcher: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"repindex-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddDependenciesTool(mcpServer, searcher)
	AddContextTool(mcpServer, searcher)

	watcher, err := NewGraphWatcher(searcher, config.GraphDir)
	if err != nil {
		searcher.Close()
		return nil, fmt.Errorf("failed to create graph watcher: %w", err)
	}

	return &Server{
		config:   config,
		searcher: searcher,
		watcher:  watcher,
		mcp:      mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.watcher.Start(ctx)
	defer s.watcher.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.searcher != nil {
		return s.searcher.Close()
	}
	return nil
}
