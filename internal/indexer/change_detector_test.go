package indexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for DetectChanges:
// - First run against an empty cache reports everything as added
// - Same content hashes to unchanged, different content to modified
// - Cache entries without a file on disk become deleted, sorted
// - Unreadable files (absent from contents) are neither added nor deleted twice

func detect(t *testing.T, files []string, contents map[string]string, prev *Cache) (*ChangeSet, map[string]string) {
	t.Helper()
	cs, hashes, err := DetectChanges(context.Background(), files, contents, prev)
	require.NoError(t, err)
	return cs, hashes
}

func TestDetectChanges_FirstRun(t *testing.T) {
	t.Parallel()

	files := []string{"a.py", "b.py"}
	contents := map[string]string{"a.py": "print(1)\n", "b.py": "print(2)\n"}

	cs, hashes := detect(t, files, contents, &Cache{Files: map[string]CacheEntry{}})

	assert.Equal(t, []string{"a.py", "b.py"}, cs.Added)
	assert.Empty(t, cs.Modified)
	assert.Empty(t, cs.Deleted)
	assert.Empty(t, cs.Unchanged)
	assert.True(t, cs.HasChanges())
	assert.Len(t, hashes, 2)
}

func TestDetectChanges_SecondRun(t *testing.T) {
	t.Parallel()

	contents := map[string]string{"a.py": "print(1)\n", "b.py": "print(2)\n"}
	_, hashes := detect(t, []string{"a.py", "b.py"}, contents, &Cache{Files: map[string]CacheEntry{}})

	// b.py edited, c.py appears, a.py untouched
	next := map[string]string{
		"a.py": "print(1)\n",
		"b.py": "print(2)\nprint(3)\n",
		"c.py": "print(4)\n",
	}
	cs, _ := detect(t, []string{"a.py", "b.py", "c.py"}, next, NewCache(hashes))

	assert.Equal(t, []string{"c.py"}, cs.Added)
	assert.Equal(t, []string{"b.py"}, cs.Modified)
	assert.Equal(t, []string{"a.py"}, cs.Unchanged)
	assert.Empty(t, cs.Deleted)
}

func TestDetectChanges_Deleted(t *testing.T) {
	t.Parallel()

	prev := NewCache(map[string]string{
		"z.py":    hashContent("z"),
		"a.py":    hashContent("a"),
		"keep.py": hashContent("keep"),
	})

	cs, _ := detect(t, []string{"keep.py"}, map[string]string{"keep.py": "keep"}, prev)

	assert.Equal(t, []string{"a.py", "z.py"}, cs.Deleted)
	assert.Equal(t, []string{"keep.py"}, cs.Unchanged)
	assert.True(t, cs.HasChanges())
}

func TestDetectChanges_UnreadableFileSkipped(t *testing.T) {
	t.Parallel()

	// bad.py was discovered but never read; it keeps its deleted status from
	// the cache side and produces no hash.
	prev := NewCache(map[string]string{"bad.py": hashContent("old")})
	cs, hashes := detect(t, []string{"bad.py"}, map[string]string{}, prev)

	assert.Equal(t, []string{"bad.py"}, cs.Deleted)
	assert.NotContains(t, hashes, "bad.py")
}

func TestDetectChanges_NoChanges(t *testing.T) {
	t.Parallel()

	contents := map[string]string{"a.py": "same\n"}
	_, hashes := detect(t, []string{"a.py"}, contents, &Cache{Files: map[string]CacheEntry{}})

	cs, _ := detect(t, []string{"a.py"}, contents, NewCache(hashes))
	assert.False(t, cs.HasChanges())
	assert.Equal(t, []string{"a.py"}, cs.Unchanged)
}
