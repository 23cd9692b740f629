package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/repindex/repindex/internal/config"
	"github.com/repindex/repindex/internal/export"
	"github.com/repindex/repindex/internal/graph"
	"github.com/repindex/repindex/internal/indexer"
)

var (
	exportOutput    string
	exportURI       string
	exportUsername  string
	exportPassword  string
	exportDatabase  string
	exportBatchSize int
	exportClean     bool
)

// exportCmd groups the graph export targets.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dependency graph to external systems",
}

// exportNeo4jCmd represents the export neo4j command
var exportNeo4jCmd = &cobra.Command{
	Use:   "neo4j [repo]",
	Short: "Bulk-load the dependency graph into Neo4j",
	Long: `Export neo4j loads the dependency graph into a Neo4j database using batched
UNWIND queries: repository files become (:File {path}) nodes, unresolved
references become (:External {name}) nodes, and edges become IMPORTS or
EXPORTS relationships with the referenced symbols as an objects property.

The serialized graph under <output>/repindex/ is used when present;
otherwise the repository is indexed in memory first.

Examples:
  repindex export neo4j --password secret
  repindex export neo4j ~/code/service --uri bolt://db.internal:7687 --clean
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExportNeo4j,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportNeo4jCmd)
	exportNeo4jCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Parent directory holding the artifact set (default from config)")
	exportNeo4jCmd.Flags().StringVar(&exportURI, "uri", "", "Neo4j bolt URI (default from config)")
	exportNeo4jCmd.Flags().StringVar(&exportUsername, "username", "", "Neo4j username (default from config)")
	exportNeo4jCmd.Flags().StringVar(&exportPassword, "password", "", "Neo4j password (default from config)")
	exportNeo4jCmd.Flags().StringVar(&exportDatabase, "database", "", "Neo4j database name (default from config)")
	exportNeo4jCmd.Flags().IntVar(&exportBatchSize, "batch-size", 0, "Rows per UNWIND batch (default from config)")
	exportNeo4jCmd.Flags().BoolVar(&exportClean, "clean", false, "Remove previously loaded dependency data first")
}

func runExportNeo4j(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	neo := cfg.Neo4j
	flags := cmd.Flags()
	if flags.Changed("uri") {
		neo.URI = exportURI
	}
	if flags.Changed("username") {
		neo.Username = exportUsername
	}
	if flags.Changed("password") {
		neo.Password = exportPassword
	}
	if flags.Changed("database") {
		neo.Database = exportDatabase
	}
	if flags.Changed("batch-size") {
		neo.BatchSize = exportBatchSize
	}

	outputDir := cfg.Output
	if flags.Changed("output") {
		outputDir = exportOutput
	}

	g, err := loadOrBuildGraph(ctx, cfg, rootDir, outputDir)
	if err != nil {
		return err
	}

	exporter, err := export.NewNeo4jExporter(ctx, export.Neo4jOptions{
		URI:       neo.URI,
		Username:  neo.Username,
		Password:  neo.Password,
		Database:  neo.Database,
		BatchSize: neo.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to neo4j: %w", err)
	}
	defer exporter.Close(ctx)

	if exportClean {
		if err := exporter.Clean(ctx); err != nil {
			return fmt.Errorf("failed to clean dependency data: %w", err)
		}
	}
	if err := exporter.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	stats, err := exporter.Export(ctx, g)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	log.Printf("Loaded %d files, %d externals, %d relationships into Neo4j (%d batches)",
		stats.Files, stats.Externals, stats.Relationships, stats.Batches)
	return nil
}

// loadOrBuildGraph reads the serialized full graph when it exists, falling
// back to an in-memory indexing run.
func loadOrBuildGraph(ctx context.Context, cfg *config.Config, rootDir, outputDir string) (*graph.DependencyGraph, error) {
	ix, err := indexer.New(indexer.Options{
		RootDir:     rootDir,
		OutputDir:   outputDir,
		Languages:   cfg.Languages,
		IgnoreGlobs: cfg.Ignore.Extra,
		Suffixes:    cfg.Resolver.Suffixes,
		NoIgnore:    cfg.Ignore.Disabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer: %w", err)
	}

	storage, err := graph.NewStorage(ix.OutputDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open graph storage: %w", err)
	}

	if storage.Exists() {
		g, err := storage.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		return g, nil
	}

	log.Println("No serialized graph found, indexing in memory...")
	g, err := ix.BuildGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("indexing failed: %w", err)
	}
	return g, nil
}
