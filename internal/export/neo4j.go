package export

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/repindex/repindex/internal/graph"
)

// DefaultBatchSize bounds the rows sent per UNWIND statement.
const DefaultBatchSize = 1000

// Neo4jOptions configure the connection and load behavior.
type Neo4jOptions struct {
	URI       string
	Username  string
	Password  string
	Database  string
	BatchSize int
}

// Stats summarizes one export.
type Stats struct {
	Files         int
	Externals     int
	Relationships int
	Batches       int
}

// Neo4jExporter loads a dependency graph into a Neo4j database using batch
// UNWIND queries. Repository files become (:File {path}) nodes, unresolved
// targets become (:External {name}) nodes, and edges become IMPORTS or
// EXPORTS relationships carrying the referenced symbols as an objects
// property.
type Neo4jExporter struct {
	driver neo4j.DriverWithContext
	opts   Neo4jOptions
}

// NewNeo4jExporter connects to Neo4j and returns a ready-to-use exporter.
func NewNeo4jExporter(ctx context.Context, opts Neo4jOptions) (*Neo4jExporter, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	driver, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.Username, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Neo4jExporter{driver: driver, opts: opts}, nil
}

// Close releases the underlying Neo4j driver resources.
func (e *Neo4jExporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// runCypher runs a single Cypher statement with optional parameters.
func (e *Neo4jExporter) runCypher(ctx context.Context, cypher string, params map[string]interface{}) error {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if e.opts.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.opts.Database))
	}
	_, err := neo4j.ExecuteQuery(ctx, e.driver, cypher, params, neo4j.EagerResultTransformer, opts...)
	return err
}

// Clean removes all previously loaded dependency data.
func (e *Neo4jExporter) Clean(ctx context.Context) error {
	log.Println("Cleaning existing dependency data...")
	queries := []string{
		"MATCH ()-[r:IMPORTS]->() DELETE r",
		"MATCH ()-[r:EXPORTS]->() DELETE r",
		"MATCH (n:File) DETACH DELETE n",
		"MATCH (n:External) DETACH DELETE n",
	}
	for _, q := range queries {
		if err := e.runCypher(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

// CreateIndexes ensures the required Neo4j indexes exist.
func (e *Neo4jExporter) CreateIndexes(ctx context.Context) error {
	log.Println("Creating indexes...")
	indexes := []string{
		"CREATE INDEX file_path IF NOT EXISTS FOR (n:File) ON (n.path)",
		"CREATE INDEX external_name IF NOT EXISTS FOR (n:External) ON (n.name)",
	}
	for _, q := range indexes {
		if err := e.runCypher(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

// Export upserts the whole graph: nodes first, then relationships.
func (e *Neo4jExporter) Export(ctx context.Context, g *graph.DependencyGraph) (*Stats, error) {
	rows := rowsOf(g)
	stats := &Stats{
		Files:         len(rows.files),
		Externals:     len(rows.externals),
		Relationships: len(rows.importsInternal) + len(rows.importsExternal) + len(rows.exports),
	}

	log.Printf("Loading %d files...", len(rows.files))
	if err := e.runBatched(ctx, stats,
		`UNWIND $batch AS row
		 MERGE (n:File {path: row.path})`,
		rows.files,
	); err != nil {
		return nil, err
	}

	log.Printf("Loading %d externals...", len(rows.externals))
	if err := e.runBatched(ctx, stats,
		`UNWIND $batch AS row
		 MERGE (n:External {name: row.name})`,
		rows.externals,
	); err != nil {
		return nil, err
	}

	log.Printf("Loading %d import edges...", len(rows.importsInternal)+len(rows.importsExternal))
	if err := e.runBatched(ctx, stats,
		`UNWIND $batch AS row
		 MATCH (s:File {path: row.source}), (t:File {path: row.target})
		 MERGE (s)-[r:IMPORTS]->(t)
		 SET r.objects = row.objects`,
		rows.importsInternal,
	); err != nil {
		return nil, err
	}
	if err := e.runBatched(ctx, stats,
		`UNWIND $batch AS row
		 MATCH (s:File {path: row.source}), (t:External {name: row.target})
		 MERGE (s)-[r:IMPORTS]->(t)
		 SET r.objects = row.objects`,
		rows.importsExternal,
	); err != nil {
		return nil, err
	}

	log.Printf("Loading %d export edges...", len(rows.exports))
	if err := e.runBatched(ctx, stats,
		`UNWIND $batch AS row
		 MATCH (s:File {path: row.source}), (t:File {path: row.target})
		 MERGE (s)-[r:EXPORTS]->(t)
		 SET r.objects = row.objects`,
		rows.exports,
	); err != nil {
		return nil, err
	}

	return stats, nil
}

// runBatched sends rows through one statement in BatchSize chunks.
func (e *Neo4jExporter) runBatched(ctx context.Context, stats *Stats, cypher string, rows []map[string]interface{}) error {
	for _, batch := range chunk(rows, e.opts.BatchSize) {
		stats.Batches++
		if err := e.runCypher(ctx, cypher, map[string]interface{}{"batch": batch}); err != nil {
			return err
		}
	}
	return nil
}
