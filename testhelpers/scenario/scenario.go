// Package scenario drives the stacky binary against a real on-disk repository.
package scenario

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/testhelpers"
)

// Scenario is a repository with an "origin" remote and the binary to run in it.
type Scenario struct {
	T          *testing.T
	Repo       *testhelpers.GitRepo
	BinaryPath string
	logFile    string
}

// NewScenario creates a repository whose main branch has one commit and is
// pushed to a bare origin.
func NewScenario(t *testing.T) *Scenario {
	t.Helper()
	binary := testhelpers.GetSharedBinaryPath()
	if binary == "" {
		t.Fatalf("stacky binary unavailable: %v", testhelpers.GetBinaryError())
	}
	repo := testhelpers.NewGitRepo(t)
	repo.CommitChange("initial", "init")
	repo.CreateBareRemote("origin")
	repo.Git("push", "-u", "origin", "main")
	return &Scenario{
		T:          t,
		Repo:       repo,
		BinaryPath: binary,
		logFile:    filepath.Join(t.TempDir(), "stacky.log"),
	}
}

// Run executes stacky with args and returns its combined output.
func (s *Scenario) Run(args ...string) (string, error) {
	cmd := exec.Command(s.BinaryPath, args...)
	cmd.Dir = s.Repo.Dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_EDITOR=true",
		"STACKY_NO_INTERACTIVE=1",
		"STACKY_LOG_FILE="+s.logFile,
	)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// MustRun executes stacky and fails the test when it exits non-zero.
func (s *Scenario) MustRun(args ...string) string {
	s.T.Helper()
	out, err := s.Run(args...)
	require.NoError(s.T, err, "stacky %s: %s", strings.Join(args, " "), out)
	return out
}

// Commit stages a new file and commits it through stacky.
func (s *Scenario) Commit(message, prefix string) string {
	s.T.Helper()
	s.Repo.CreateChange(message, prefix)
	return s.MustRun("commit", "-m", message)
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (s *Scenario) IsAncestor(ancestor, descendant string) bool {
	_, err := s.Repo.TryGit("merge-base", "--is-ancestor", ancestor, descendant)
	return err == nil
}
