package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/repindex/repindex/internal/indexer"
)

var (
	contextTargets []string
	contextOutput  string
)

// contextCmd represents the context command
var contextCmd = &cobra.Command{
	Use:   "context [repo]",
	Short: "Generate a context document for specific files",
	Long: `Context builds the dependency graph, takes the transitive import closure
from the requested files, and writes one markdown document containing every
involved file's content and structure.

The document lands in <output>/repindex/context_<timestamp>.md.

Examples:
  repindex context --for src/app.ts
  repindex context ~/code/service --for src/app.ts --for src/api.ts
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.Flags().StringArrayVar(&contextTargets, "for", nil, "Target file, repository-relative (repeatable)")
	contextCmd.Flags().StringVarP(&contextOutput, "output", "o", "", "Parent directory for the artifact set (default from config)")
	contextCmd.MarkFlagRequired("for")
}

func runContext(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	outputDir := cfg.Output
	if cmd.Flags().Changed("output") {
		outputDir = contextOutput
	}

	ix, err := indexer.New(indexer.Options{
		RootDir:     rootDir,
		OutputDir:   outputDir,
		Languages:   cfg.Languages,
		IgnoreGlobs: cfg.Ignore.Extra,
		Suffixes:    cfg.Resolver.Suffixes,
		NoIgnore:    cfg.Ignore.Disabled,
	})
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	path, err := ix.WriteContext(ctx, contextTargets)
	if err != nil {
		return fmt.Errorf("context generation failed: %w", err)
	}

	fmt.Printf("Context file generated at: %s\n", path)
	return nil
}
