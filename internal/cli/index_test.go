package cli

// Test Plan for the index command:
// - indexerOptions merges config with explicitly set flags
// - invalid --lang values are rejected before indexing starts
// - runIndex writes the artifact set relative to the working directory
// - --context-for switches the run to context mode without artifacts
//
// Flag variables are package globals, so these tests restore them and run
// serially (no t.Parallel).

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/repindex/repindex/internal/config"
)

// fixtureRepo writes a small python repository.
func fixtureRepo(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"requirements.txt": "requests\n",
		"main.py":          "from lib import helper\n\nhelper()\n",
		"lib.py":           "def helper():\n    return 1\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0644))
	}
	return root
}

// chdirScratch moves into a fresh working directory so relative output
// paths land somewhere disposable.
func chdirScratch(t *testing.T) string {
	t.Helper()

	workDir := t.TempDir()
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(originalWd) })
	require.NoError(t, os.Chdir(workDir))
	return workDir
}

// scratchIndexFlags binds the index flag variables to a throwaway command
// so Changed state does not leak into other tests.
func scratchIndexFlags(t *testing.T) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "index"}
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "")
	cmd.Flags().StringSliceVar(&langFlag, "lang", nil, "")
	cmd.Flags().BoolVar(&noIgnoreFlag, "no-ignore", false, "")
	cmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "")
	cmd.Flags().BoolVar(&minimalFlag, "minimal", false, "")

	t.Cleanup(func() {
		outputFlag = ""
		langFlag = nil
		noIgnoreFlag = false
		noCacheFlag = false
		minimalFlag = false
	})
	return cmd
}

func TestIndexerOptions_ConfigDefaults(t *testing.T) {
	cmd := scratchIndexFlags(t)

	cfg := config.Default()
	cfg.Output = "fromconfig"
	cfg.Languages = []string{"react"}
	cfg.Cache.Disabled = true

	opts, err := indexerOptions(cmd, cfg, "repo")
	require.NoError(t, err)

	assert.Equal(t, "repo", opts.RootDir)
	assert.Equal(t, "fromconfig", opts.OutputDir)
	assert.Equal(t, []string{"react"}, opts.Languages)
	assert.True(t, opts.NoCache)
	assert.False(t, opts.Minimal)
}

func TestIndexerOptions_FlagsOverrideConfig(t *testing.T) {
	cmd := scratchIndexFlags(t)
	require.NoError(t, cmd.ParseFlags([]string{"-o", "custom", "--lang", "python", "--minimal"}))

	cfg := config.Default()
	cfg.Output = "fromconfig"
	cfg.Languages = []string{"react"}

	opts, err := indexerOptions(cmd, cfg, "repo")
	require.NoError(t, err)

	assert.Equal(t, "custom", opts.OutputDir)
	assert.Equal(t, []string{"python"}, opts.Languages)
	assert.True(t, opts.Minimal)
}

func TestIndexerOptions_InvalidLang(t *testing.T) {
	cmd := scratchIndexFlags(t)
	require.NoError(t, cmd.ParseFlags([]string{"--lang", "rust"}))

	_, err := indexerOptions(cmd, config.Default(), "repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --lang")
}

func TestRunIndex_WritesArtifacts(t *testing.T) {
	repo := fixtureRepo(t)
	workDir := chdirScratch(t)

	quietFlag = true
	t.Cleanup(func() { quietFlag = false })

	require.NoError(t, runIndex(indexCmd, []string{repo}))

	artifactDir := filepath.Join(workDir, "repindex")
	assert.FileExists(t, filepath.Join(artifactDir, "dependency_graph_full.json"))
	assert.FileExists(t, filepath.Join(artifactDir, "tree_structure.txt"))
	assert.FileExists(t, filepath.Join(artifactDir, "documentation.md"))
	assert.FileExists(t, filepath.Join(artifactDir, "repindex_cache.json"))
	assert.FileExists(t, filepath.Join(artifactDir, "index_report.json"))
}

func TestRunIndex_ContextForMode(t *testing.T) {
	repo := fixtureRepo(t)
	workDir := chdirScratch(t)

	quietFlag = true
	contextForFlag = []string{"main.py"}
	t.Cleanup(func() {
		quietFlag = false
		contextForFlag = nil
	})

	require.NoError(t, runIndex(indexCmd, []string{repo}))

	artifactDir := filepath.Join(workDir, "repindex")
	matches, err := filepath.Glob(filepath.Join(artifactDir, "context_*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Context for Files: main.py")
	assert.Contains(t, string(data), "- lib.py\n")

	// Context mode skips the artifact run entirely
	assert.NoFileExists(t, filepath.Join(artifactDir, "tree_structure.txt"))
	assert.NoFileExists(t, filepath.Join(artifactDir, "dependency_graph_full.json"))
}

func TestRunIndex_BadRepository(t *testing.T) {
	chdirScratch(t)

	quietFlag = true
	t.Cleanup(func() { quietFlag = false })

	err := runIndex(indexCmd, []string{"/nonexistent/repository"})
	require.Error(t, err)
}
