package indexer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriter writes artifacts using the temp file + rename pattern so
// readers never observe partial content.
type AtomicWriter struct {
	outputDir string
	tempDir   string
}

// NewAtomicWriter creates a writer for the given artifact directory. Stale
// temp files from a previous crashed run are cleaned up.
func NewAtomicWriter(outputDir string) (*AtomicWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tempDir := filepath.Join(outputDir, ".tmp")
	if err := os.RemoveAll(tempDir); err != nil {
		return nil, fmt.Errorf("failed to clean temp directory: %w", err)
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &AtomicWriter{outputDir: outputDir, tempDir: tempDir}, nil
}

// WriteJSON marshals v with the artifact set's four-space indentation and
// writes it atomically.
func (w *AtomicWriter) WriteJSON(filename string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}
	return w.WriteBytes(filename, data)
}

// WriteText writes a text artifact atomically.
func (w *AtomicWriter) WriteText(filename, content string) error {
	return w.WriteBytes(filename, []byte(content))
}

// WriteBytes writes raw bytes to a temp file and renames it into place.
func (w *AtomicWriter) WriteBytes(filename string, data []byte) error {
	tempPath := filepath.Join(w.tempDir, filename)
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file for %s: %w", filename, err)
	}

	finalPath := filepath.Join(w.outputDir, filename)
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize %s: %w", filename, err)
	}
	return nil
}

// Path returns the final location of an artifact.
func (w *AtomicWriter) Path(filename string) string {
	return filepath.Join(w.outputDir, filename)
}
