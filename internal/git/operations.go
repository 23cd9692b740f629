package git

import (
	"os/exec"
	"strings"
)

// Operations defines the repository queries recorded in the index report.
// This allows mocking git commands in tests.
type Operations interface {
	// CurrentBranch returns the checked-out branch name.
	// For detached HEAD, returns "detached-{short-hash}".
	// Returns "unknown" if all git commands fail.
	CurrentBranch(repoPath string) string

	// HeadCommit returns the short hash of HEAD.
	// Returns empty string outside a git repository.
	HeadCommit(repoPath string) string

	// RemoteURL returns the git remote URL.
	// Tries 'origin' first, then falls back to first available remote.
	// Returns empty string if no remote configured.
	RemoteURL(repoPath string) string
}

// Info is the repository metadata block embedded in the index report.
// All fields are empty when the indexed path is not a git repository.
type Info struct {
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`
	Remote string `json:"remote,omitempty"`
}

// Describe collects repository metadata for one path, normalizing the
// not-a-repository fallbacks into a zero Info.
func Describe(ops Operations, repoPath string) Info {
	branch := ops.CurrentBranch(repoPath)
	if branch == "unknown" {
		branch = ""
	}
	return Info{
		Branch: branch,
		Commit: ops.HeadCommit(repoPath),
		Remote: ops.RemoteURL(repoPath),
	}
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) CurrentBranch(repoPath string) string {
	out, err := run(repoPath, "branch", "--show-current")
	if err == nil && out != "" {
		return out
	}

	// Might be detached HEAD
	out, err = run(repoPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "unknown"
	}
	return "detached-" + out
}

func (g *gitOps) HeadCommit(repoPath string) string {
	out, err := run(repoPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return out
}

func (g *gitOps) RemoteURL(repoPath string) string {
	if out, err := run(repoPath, "remote", "get-url", "origin"); err == nil && out != "" {
		return out
	}

	// Fallback: first remote
	out, err := run(repoPath, "remote")
	if err != nil || out == "" {
		return ""
	}
	first := strings.Split(out, "\n")[0]
	url, _ := run(repoPath, "remote", "get-url", strings.TrimSpace(first))
	return url
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
