package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage handles reading and writing dependency graph artifacts.
type Storage interface {
	// Load reads the full projection back into a graph. Returns nil if the
	// artifact doesn't exist yet.
	Load() (*DependencyGraph, error)

	// Save writes all four projections of the graph using the atomic write
	// pattern. The full projection is the source of truth on disk; the
	// filtered ones are derived views written alongside it.
	Save(g *DependencyGraph) error

	// Exists checks if the full graph artifact exists.
	Exists() bool
}

// storage implements Storage with atomic write support.
type storage struct {
	outDir string // Directory containing graph artifacts (<output>/repindex/)
}

// NewStorage creates a new graph storage instance.
func NewStorage(outDir string) (Storage, error) {
	// Ensure artifact directory exists
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create graph directory: %w", err)
	}

	// Ensure temp directory exists for atomic writes
	tempDir := filepath.Join(outDir, ".tmp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &storage{outDir: outDir}, nil
}

// Load reads the full graph artifact from disk and reassembles it.
func (s *storage) Load() (*DependencyGraph, error) {
	filePath := s.graphFilePath(ModeFull)

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil // Not an error, just no graph yet
	}

	// Read file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	// Parse JSON
	rels, err := DecodeProjection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph JSON: %w", err)
	}

	return Assemble(EdgesOf(rels)), nil
}

// Save writes every projection to disk using the atomic write pattern.
func (s *storage) Save(g *DependencyGraph) error {
	for _, mode := range Modes {
		// Marshal with indentation for readability
		jsonData, err := json.MarshalIndent(Project(g, mode), "", "    ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s graph: %w", mode, err)
		}

		// Write to temp file first
		tempPath := filepath.Join(s.outDir, ".tmp", mode.Filename())
		if err := os.WriteFile(tempPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write temp graph file: %w", err)
		}

		// Atomic rename (POSIX guarantees atomicity)
		if err := os.Rename(tempPath, s.graphFilePath(mode)); err != nil {
			return fmt.Errorf("failed to rename temp graph file: %w", err)
		}
	}

	return nil
}

// Exists checks if the full graph artifact exists.
func (s *storage) Exists() bool {
	_, err := os.Stat(s.graphFilePath(ModeFull))
	return err == nil
}

// graphFilePath returns the full path to one projection's artifact.
func (s *storage) graphFilePath(mode Mode) string {
	return filepath.Join(s.outDir, mode.Filename())
}
