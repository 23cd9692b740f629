package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maypok86/otter"
)

// QueryOperation represents the type of graph query to perform.
type QueryOperation string

const (
	OperationDependencies QueryOperation = "dependencies"
	OperationDependents   QueryOperation = "dependents"
)

// Query defaults and limits
const (
	DefaultDepth          = 1
	DefaultMaxResults     = 100
	MaxDepth              = 10
	DefaultFileCacheBytes = 8 << 20
)

// QueryRequest represents a graph query request.
type QueryRequest struct {
	Operation  QueryOperation // Type of query
	Target     string         // Repository-relative file path to query
	Depth      int            // Traversal depth (default: 1)
	MaxResults int            // Maximum number of results (default: 100)
}

// QueryResponse represents the response to a graph query.
type QueryResponse struct {
	Operation     string        `json:"operation"`
	Target        string        `json:"target"`
	Results       []QueryResult `json:"results"`
	TotalFound    int           `json:"total_found"`
	TotalReturned int           `json:"total_returned"`
	Truncated     bool          `json:"truncated"`
	Metadata      ResponseMeta  `json:"metadata"`
}

// QueryResult represents a single related file found by a graph query.
type QueryResult struct {
	File     string   `json:"file"`
	Origin   Origin   `json:"type"`
	Symbols  []string `json:"objects"`
	External bool     `json:"external,omitempty"`
	Depth    int      `json:"depth,omitempty"` // Depth in traversal (for recursive queries)
}

// ResponseMeta contains metadata about the query execution.
type ResponseMeta struct {
	TookMs int    `json:"took_ms"`
	Source string `json:"source"` // Always "graph"
}

// Searcher provides dependency graph query capabilities over stored artifacts.
type Searcher interface {
	// Query executes a graph query and returns results.
	Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error)

	// Snapshot returns the currently loaded graph. Graphs are immutable
	// once assembled; Reload swaps the pointer.
	Snapshot() *DependencyGraph

	// Content returns one repository file's content, cached until the
	// next Reload.
	Content(relPath string) (string, error)

	// Reload reloads the graph from storage.
	Reload(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// searcher implements Searcher with an in-memory graph and a bounded file
// content cache.
type searcher struct {
	storage Storage
	rootDir string
	mu      sync.RWMutex // Protects graph

	graph *DependencyGraph

	// File contents for context assembly. otter is safe for concurrent
	// use, so reads never take the searcher lock.
	files otter.Cache[string, string]
}

// NewSearcher creates a new graph searcher rooted at the indexed repository.
// cacheBytes bounds the file content cache; zero or negative selects the
// default.
func NewSearcher(storage Storage, rootDir string, cacheBytes int) (Searcher, error) {
	if cacheBytes <= 0 {
		cacheBytes = DefaultFileCacheBytes
	}

	files, err := otter.MustBuilder[string, string](cacheBytes).
		Cost(func(key string, value string) uint32 {
			return uint32(len(value))
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build file cache: %w", err)
	}

	s := &searcher{
		storage: storage,
		rootDir: rootDir,
		files:   files,
	}

	// Initial load
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload reloads the graph from storage and drops cached file contents.
func (s *searcher) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	if g == nil {
		// No graph yet, initialize empty
		g = Assemble(nil)
	}

	s.graph = g
	s.files.Clear()

	return nil
}

// Snapshot returns the currently loaded graph.
func (s *searcher) Snapshot() *DependencyGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// Query executes a graph query.
func (s *searcher) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startTime := time.Now()

	// Set defaults
	if req.Depth <= 0 {
		req.Depth = DefaultDepth
	}
	if req.Depth > MaxDepth {
		req.Depth = MaxDepth
	}
	if req.MaxResults <= 0 {
		req.MaxResults = DefaultMaxResults
	}

	var found []QueryResult
	switch req.Operation {
	case OperationDependencies:
		found = s.queryDependencies(req.Target, req.Depth)
	case OperationDependents:
		found = s.queryDependents(req.Target, req.Depth)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", req.Operation)
	}

	// Build results, keeping the first edge seen per file
	results := []QueryResult{}
	seen := make(map[string]bool)

	for _, r := range found {
		if seen[r.File] {
			continue
		}
		seen[r.File] = true

		results = append(results, r)

		if len(results) >= req.MaxResults {
			break
		}
	}

	response := &QueryResponse{
		Operation:     string(req.Operation),
		Target:        req.Target,
		Results:       results,
		TotalFound:    len(found),
		TotalReturned: len(results),
		Truncated:     len(results) < len(found),
		Metadata: ResponseMeta{
			TookMs: int(time.Since(startTime).Milliseconds()),
			Source: "graph",
		},
	}

	return response, nil
}

// queryDependencies finds the files the target imports (recursive up to depth).
func (s *searcher) queryDependencies(target string, depth int) []QueryResult {
	results := []QueryResult{}
	visited := make(map[string]int) // file -> depth at which it was first expanded

	var traverse func(file string, currentDepth int)
	traverse = func(file string, currentDepth int) {
		if currentDepth > depth {
			return
		}
		if prevDepth, seen := visited[file]; seen && prevDepth <= currentDepth {
			return // Already expanded at same or shallower depth
		}
		visited[file] = currentDepth

		for _, idx := range s.graph.Outgoing[file] {
			edge := s.graph.Edges[idx]
			if edge.Origin != OriginImport {
				continue
			}
			results = append(results, QueryResult{
				File:     edge.Target,
				Origin:   edge.Origin,
				Symbols:  edgeSymbols(edge),
				External: edge.External,
				Depth:    currentDepth,
			})
			if currentDepth < depth {
				traverse(edge.Target, currentDepth+1)
			}
		}
	}

	traverse(target, 1)
	return results
}

// queryDependents finds the files that import the target (recursive up to depth).
func (s *searcher) queryDependents(target string, depth int) []QueryResult {
	results := []QueryResult{}
	visited := make(map[string]int) // file -> depth at which it was first expanded

	var traverse func(file string, currentDepth int)
	traverse = func(file string, currentDepth int) {
		if currentDepth > depth {
			return
		}
		if prevDepth, seen := visited[file]; seen && prevDepth <= currentDepth {
			return // Already expanded at same or shallower depth
		}
		visited[file] = currentDepth

		for _, idx := range s.graph.Incoming[file] {
			edge := s.graph.Edges[idx]
			if edge.Origin != OriginImport {
				continue
			}
			results = append(results, QueryResult{
				File:    edge.Source,
				Origin:  edge.Origin,
				Symbols: edgeSymbols(edge),
				Depth:   currentDepth,
			})
			if currentDepth < depth {
				traverse(edge.Source, currentDepth+1)
			}
		}
	}

	traverse(target, 1)
	return results
}

// Content returns one repository file's content, cached across queries.
func (s *searcher) Content(relPath string) (string, error) {
	if content, ok := s.files.Get(relPath); ok {
		return content, nil
	}

	data, err := os.ReadFile(filepath.Join(s.rootDir, relPath))
	if err != nil {
		return "", err
	}

	content := string(data)
	s.files.Set(relPath, content)
	return content, nil
}

// Close releases resources.
func (s *searcher) Close() error {
	s.files.Close()
	return nil
}

// edgeSymbols returns an edge's symbol list, never nil.
func edgeSymbols(e Edge) []string {
	if e.Symbols == nil {
		return []string{}
	}
	return e.Symbols
}
