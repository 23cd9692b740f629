package indexer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// CacheFileName is the artifact holding incremental state between runs.
const CacheFileName = "repindex_cache.json"

// CacheEntry records one file's content hash from the previous run.
type CacheEntry struct {
	Hash string `json:"hash"`
}

// Cache is the persisted incremental state: a hash per file plus the run
// timestamp. Nothing else survives across runs, so change detection compares
// hashes only.
type Cache struct {
	Files     map[string]CacheEntry `json:"files"`
	Timestamp string                `json:"timestamp"`
}

// LoadCache reads the cache artifact. A missing file yields an empty cache,
// which makes the first run a plain full index.
func LoadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Cache{Files: map[string]CacheEntry{}}, nil
		}
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse cache: %w", err)
	}
	if c.Files == nil {
		c.Files = map[string]CacheEntry{}
	}
	return &c, nil
}

// NewCache builds this run's cache from the computed hashes.
func NewCache(hashes map[string]string) *Cache {
	files := make(map[string]CacheEntry, len(hashes))
	for p, h := range hashes {
		files[p] = CacheEntry{Hash: h}
	}
	return &Cache{
		Files:     files,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
