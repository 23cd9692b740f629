package cli

// Test Plan for the context command:
// - runContext writes a timestamped context document under the artifact dir
// - the document carries the target header and the closure's file contents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunContext_WritesDocument(t *testing.T) {
	repo := fixtureRepo(t)
	workDir := chdirScratch(t)

	contextTargets = []string{"main.py"}
	t.Cleanup(func() { contextTargets = nil })

	require.NoError(t, runContext(contextCmd, []string{repo}))

	matches, err := filepath.Glob(filepath.Join(workDir, "repindex", "context_*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Context for Files: main.py")
	assert.Contains(t, string(data), "def helper():")
}

func TestRunContext_MissingTarget(t *testing.T) {
	repo := fixtureRepo(t)
	chdirScratch(t)

	contextTargets = nil
	err := runContext(contextCmd, []string{repo})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context generation failed")
}
