package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// ChangeSet contains the result of comparing a run against the previous
// cache. The slices hold repository-relative paths; Added and Modified keep
// discovery order, Deleted is sorted.
type ChangeSet struct {
	Added     []string
	Modified  []string
	Deleted   []string
	Unchanged []string
}

// HasChanges reports whether anything moved since the previous run.
func (cs *ChangeSet) HasChanges() bool {
	return len(cs.Added) > 0 || len(cs.Modified) > 0 || len(cs.Deleted) > 0
}

// DetectChanges compares the discovered files against the previous cache and
// returns the change set together with this run's hashes.
//
// Algorithm:
// 1. Hash every readable file (SHA-256 of the raw bytes)
// 2. Not in the cache means Added, a different hash means Modified
// 3. Cache entries without a file on disk become Deleted
//
// Files that could not be read were already reported upstream and are simply
// absent from contents; they count as deleted once their cache entry ages out.
func DetectChanges(ctx context.Context, files []string, contents map[string]string, previous *Cache) (*ChangeSet, map[string]string, error) {
	changes := &ChangeSet{
		Added:     []string{},
		Modified:  []string{},
		Deleted:   []string{},
		Unchanged: []string{},
	}
	hashes := make(map[string]string, len(contents))
	seen := make(map[string]bool, len(files))

	for _, relPath := range files {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		content, ok := contents[relPath]
		if !ok {
			continue
		}
		seen[relPath] = true

		hash := hashContent(content)
		hashes[relPath] = hash

		entry, existed := previous.Files[relPath]
		switch {
		case !existed:
			changes.Added = append(changes.Added, relPath)
		case entry.Hash != hash:
			changes.Modified = append(changes.Modified, relPath)
		default:
			changes.Unchanged = append(changes.Unchanged, relPath)
		}
	}

	for relPath := range previous.Files {
		if !seen[relPath] {
			changes.Deleted = append(changes.Deleted, relPath)
		}
	}
	sort.Strings(changes.Deleted)

	return changes, hashes, nil
}

// hashContent is the cache identity for a file: hex SHA-256 of its bytes.
func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
