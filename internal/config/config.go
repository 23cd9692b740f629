package config

import (
	"github.com/repindex/repindex/internal/graph"
)

// Config represents the complete repindex configuration.
// It can be loaded from .repindex/config.yml with environment variable
// overrides; command-line flags take precedence over both.
type Config struct {
	Output    string         `yaml:"output" mapstructure:"output"`
	Languages []string       `yaml:"languages" mapstructure:"languages"`
	Ignore    IgnoreConfig   `yaml:"ignore" mapstructure:"ignore"`
	Resolver  ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Cache     CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Outputs   OutputsConfig  `yaml:"outputs" mapstructure:"outputs"`
	Watch     WatchConfig    `yaml:"watch" mapstructure:"watch"`
	Neo4j     Neo4jConfig    `yaml:"neo4j" mapstructure:"neo4j"`
	MCP       MCPConfig      `yaml:"mcp" mapstructure:"mcp"`
}

// IgnoreConfig tunes file discovery.
type IgnoreConfig struct {
	Extra    []string `yaml:"extra" mapstructure:"extra"`       // additional glob patterns to skip
	Disabled bool     `yaml:"disabled" mapstructure:"disabled"` // same as --no-ignore
}

// ResolverConfig overrides reference resolution.
type ResolverConfig struct {
	// Suffixes is the candidate suffix precedence tried against the file set.
	// Empty means the ecosystem default; the empty string entry is the exact
	// match and is usually listed first.
	Suffixes []string `yaml:"suffixes" mapstructure:"suffixes"`
}

// CacheConfig tunes incremental state.
type CacheConfig struct {
	Disabled bool `yaml:"disabled" mapstructure:"disabled"` // same as --no-cache
}

// OutputsConfig selects which artifacts a run writes.
type OutputsConfig struct {
	Minimal bool `yaml:"minimal" mapstructure:"minimal"` // same as --minimal
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Neo4jConfig holds connection settings for the graph export.
type Neo4jConfig struct {
	URI       string `yaml:"uri" mapstructure:"uri"`
	Username  string `yaml:"username" mapstructure:"username"`
	Password  string `yaml:"password" mapstructure:"password"`
	Database  string `yaml:"database" mapstructure:"database"`
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	// GraphDir is the artifact directory to serve; empty means
	// <output>/repindex under the repository root.
	GraphDir string `yaml:"graph_dir" mapstructure:"graph_dir"`
	// CacheSize bounds the file content cache in bytes.
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Output:    ".",
		Languages: []string{},
		Ignore: IgnoreConfig{
			Extra: []string{},
		},
		Resolver: ResolverConfig{
			Suffixes: []string{},
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Neo4j: Neo4jConfig{
			URI:       "bolt://localhost:7687",
			Username:  "neo4j",
			Database:  "neo4j",
			BatchSize: 1000,
		},
		MCP: MCPConfig{
			CacheSize: graph.DefaultFileCacheBytes,
		},
	}
}
