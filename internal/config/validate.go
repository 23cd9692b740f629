package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/repindex/repindex/internal/classify"
)

var (
	// ErrInvalidLanguage indicates an unknown forced ecosystem
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")

	// ErrInvalidBatchSize indicates a non-positive export batch size
	ErrInvalidBatchSize = errors.New("invalid batch size")

	// ErrInvalidCacheSize indicates a negative MCP cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrEmptyNeo4jURI indicates a missing Neo4j connection URI
	ErrEmptyNeo4jURI = errors.New("empty neo4j uri")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	for _, lang := range cfg.Languages {
		if lang != classify.EcosystemReact && lang != classify.EcosystemPython {
			errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'",
				ErrInvalidLanguage, classify.EcosystemReact, classify.EcosystemPython, lang))
		}
	}

	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d",
			ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}

	if cfg.Neo4j.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: batch_size must be positive, got %d",
			ErrInvalidBatchSize, cfg.Neo4j.BatchSize))
	}
	if strings.TrimSpace(cfg.Neo4j.URI) == "" {
		errs = append(errs, fmt.Errorf("%w: uri is required", ErrEmptyNeo4jURI))
	}

	if cfg.MCP.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size cannot be negative, got %d",
			ErrInvalidCacheSize, cfg.MCP.CacheSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
