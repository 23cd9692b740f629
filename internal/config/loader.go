package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string // explicit path; empty means search rootDir/.repindex
}

// NewLoader creates a configuration loader that searches the repository's
// .repindex directory for config.yml.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader bound to an explicit config file. A missing
// file is an error here, unlike the searched location.
func NewFileLoader(configFile string) Loader {
	return &loader{configFile: configFile}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (REPINDEX_*)
// 2. Config file (.repindex/config.yml or an explicit --config path)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".repindex"))
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("REPINDEX")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., REPINDEX_NEO4J_URI)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	v.BindEnv("output")
	v.BindEnv("ignore.disabled")
	v.BindEnv("cache.disabled")
	v.BindEnv("outputs.minimal")
	v.BindEnv("watch.debounce_ms")
	v.BindEnv("neo4j.uri")
	v.BindEnv("neo4j.username")
	v.BindEnv("neo4j.password")
	v.BindEnv("neo4j.database")
	v.BindEnv("neo4j.batch_size")
	v.BindEnv("mcp.graph_dir")
	v.BindEnv("mcp.cache_size")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if l.configFile != "" {
			// An explicitly named file must exist and parse
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("output", defaults.Output)
	v.SetDefault("languages", defaults.Languages)
	v.SetDefault("ignore.extra", defaults.Ignore.Extra)
	v.SetDefault("ignore.disabled", defaults.Ignore.Disabled)
	v.SetDefault("resolver.suffixes", defaults.Resolver.Suffixes)
	v.SetDefault("cache.disabled", defaults.Cache.Disabled)
	v.SetDefault("outputs.minimal", defaults.Outputs.Minimal)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	v.SetDefault("neo4j.uri", defaults.Neo4j.URI)
	v.SetDefault("neo4j.username", defaults.Neo4j.Username)
	v.SetDefault("neo4j.password", defaults.Neo4j.Password)
	v.SetDefault("neo4j.database", defaults.Neo4j.Database)
	v.SetDefault("neo4j.batch_size", defaults.Neo4j.BatchSize)
	v.SetDefault("mcp.graph_dir", defaults.MCP.GraphDir)
	v.SetDefault("mcp.cache_size", defaults.MCP.CacheSize)
}

// LoadConfigFromDir loads configuration for a repository root.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
