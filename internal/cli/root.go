package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/repindex/repindex/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "repindex",
	Short: "repindex - repository indexing and dependency mapping",
	Long: `repindex scans a source repository, extracts per-file import and export
relationships, resolves them against the repository tree, and writes a
self-contained artifact set: dependency graphs, a tree rendering, markdown
documentation, structure summaries and an incremental change report.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <repo>/.repindex/config.yml)")
}

// loadConfig resolves configuration for a repository root, honoring the
// --config flag when set.
func loadConfig(rootDir string) (*config.Config, error) {
	if cfgFile != "" {
		return config.NewFileLoader(cfgFile).Load()
	}
	return config.LoadConfigFromDir(rootDir)
}
