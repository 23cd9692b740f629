package git

// Test Plan for git operations:
// - paths outside a repository degrade to the documented fallbacks
// - Describe normalizes those fallbacks into a zero Info
// - the mock satisfies the interface with configurable values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperations_NonRepository(t *testing.T) {
	t.Parallel()

	ops := NewOperations()
	dir := t.TempDir()

	assert.Equal(t, "unknown", ops.CurrentBranch(dir))
	assert.Equal(t, "", ops.HeadCommit(dir))
	assert.Equal(t, "", ops.RemoteURL(dir))
}

func TestDescribe_NonRepository(t *testing.T) {
	t.Parallel()

	info := Describe(NewOperations(), t.TempDir())
	assert.Equal(t, Info{}, info)
}

func TestDescribe_Mock(t *testing.T) {
	t.Parallel()

	info := Describe(NewMockOperations(), "/anywhere")
	assert.Equal(t, "main", info.Branch)
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, "https://github.com/user/repo.git", info.Remote)
}

func TestDescribe_DetachedHead(t *testing.T) {
	t.Parallel()

	mock := NewMockOperations()
	mock.Branch = "detached-abc1234"
	mock.Remote = ""

	info := Describe(mock, "/anywhere")
	assert.Equal(t, "detached-abc1234", info.Branch)
	assert.Equal(t, "", info.Remote)
}
