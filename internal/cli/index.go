package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/repindex/repindex/internal/classify"
	"github.com/repindex/repindex/internal/config"
	"github.com/repindex/repindex/internal/indexer"
)

var (
	outputFlag     string
	langFlag       []string
	noIgnoreFlag   bool
	noCacheFlag    bool
	minimalFlag    bool
	watchFlag      bool
	quietFlag      bool
	contextForFlag []string
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index [repo]",
	Short: "Index a repository and write the artifact set",
	Long: `Index scans a repository, extracts per-file imports and exports, resolves
them against the repository tree, and writes everything to <output>/repindex/:

  - dependency_graph_full.json plus imports, exports and no-objects views
  - tree_structure.txt
  - documentation.md and documentation_light.md
  - detailed_structure.json and top_level_structure.json
  - repindex_cache.json and repindex_changes.md
  - index_report.json

Examples:
  # Index the current directory
  repindex index

  # Index a repository into a chosen output directory
  repindex index ~/code/service -o ~/indexes

  # Force the ecosystem instead of detecting it from marker files
  repindex index --lang python

  # Watch for changes and reindex when the repository goes quiet
  repindex index --watch

  # Generate a context document instead of the artifact set
  repindex index --context-for src/app.ts --context-for src/api.ts
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Parent directory for the artifact set (default from config)")
	indexCmd.Flags().StringSliceVar(&langFlag, "lang", nil, "Force ecosystems (react, python) instead of detecting")
	indexCmd.Flags().BoolVar(&noIgnoreFlag, "no-ignore", false, "Index everything except the artifact directory")
	indexCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Drop incremental state and skip change reporting")
	indexCmd.Flags().BoolVar(&minimalFlag, "minimal", false, "Write only cache, change report and run report")
	indexCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and reindex")
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress output")
	indexCmd.Flags().StringArrayVar(&contextForFlag, "context-for", nil, "Generate a context document for the given file (repeatable)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling indexing...")
		cancel()
	}()

	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	opts, err := indexerOptions(cmd, cfg, rootDir)
	if err != nil {
		return err
	}
	opts.Progress = NewCLIProgressReporter(quietFlag)

	ix, err := indexer.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	// Context mode replaces the artifact run entirely
	if len(contextForFlag) > 0 {
		path, err := ix.WriteContext(ctx, contextForFlag)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("context generation cancelled")
			}
			return fmt.Errorf("context generation failed: %w", err)
		}
		fmt.Printf("Context file generated at: %s\n", path)
		return nil
	}

	result, err := ix.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("indexing cancelled")
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	// Print summary (if not quiet, OnComplete already printed it)
	if quietFlag {
		fmt.Printf("Indexing complete: %d files, %d edges\n",
			result.Report.FilesTotal, result.Report.Edges)
	}
	fmt.Printf("All outputs have been saved to '%s'.\n", ix.OutputDir())

	if watchFlag {
		debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
		w, err := indexer.NewWatcher(ix, debounce)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		if !quietFlag {
			log.Println("Watching for changes (Ctrl+C to stop)...")
		}
		w.Start(ctx)
		<-ctx.Done()
		w.Stop()
		if !quietFlag {
			log.Println("Watch mode stopped")
		}
	}

	return nil
}

// indexerOptions merges configuration with command line flags. A flag wins
// over the config file only when it was set explicitly.
func indexerOptions(cmd *cobra.Command, cfg *config.Config, rootDir string) (indexer.Options, error) {
	opts := indexer.Options{
		RootDir:     rootDir,
		OutputDir:   cfg.Output,
		Languages:   cfg.Languages,
		IgnoreGlobs: cfg.Ignore.Extra,
		Suffixes:    cfg.Resolver.Suffixes,
		NoIgnore:    cfg.Ignore.Disabled,
		NoCache:     cfg.Cache.Disabled,
		Minimal:     cfg.Outputs.Minimal,
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.OutputDir = outputFlag
	}
	if flags.Changed("lang") {
		for _, lang := range langFlag {
			if lang != classify.EcosystemReact && lang != classify.EcosystemPython {
				return opts, fmt.Errorf("invalid --lang %q: must be '%s' or '%s'",
					lang, classify.EcosystemReact, classify.EcosystemPython)
			}
		}
		opts.Languages = langFlag
	}
	if noIgnoreFlag {
		opts.NoIgnore = true
	}
	if noCacheFlag {
		opts.NoCache = true
	}
	if minimalFlag {
		opts.Minimal = true
	}

	return opts, nil
}
