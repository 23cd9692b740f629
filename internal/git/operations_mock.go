package git

// MockOperations is a configurable Operations implementation for tests.
type MockOperations struct {
	Branch string
	Commit string
	Remote string
}

// NewMockOperations creates a mock resembling a repository on main.
func NewMockOperations() *MockOperations {
	return &MockOperations{
		Branch: "main",
		Commit: "abc1234",
		Remote: "https://github.com/user/repo.git",
	}
}

func (m *MockOperations) CurrentBranch(repoPath string) string { return m.Branch }

func (m *MockOperations) HeadCommit(repoPath string) string { return m.Commit }

func (m *MockOperations) RemoteURL(repoPath string) string { return m.Remote }
