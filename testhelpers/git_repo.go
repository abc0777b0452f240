package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const textFileName = "test.txt"

// GitRepo is a throwaway on-disk repository driven through the git CLI.
type GitRepo struct {
	t   testing.TB
	Dir string
}

// NewGitRepo initializes a repository with a "main" branch in a temp dir.
func NewGitRepo(t testing.TB) *GitRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir := t.TempDir()
	repo := &GitRepo{t: t, Dir: dir}
	repo.Git("-c", "init.defaultBranch=main", "init", "-b", "main", ".")
	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "user.email", "test@example.com")
	repo.Git("config", "commit.gpgsign", "false")
	return repo
}

// Git runs a git command in the repository, failing the test on error, and
// returns its trimmed output.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()
	out, err := r.TryGit(args...)
	require.NoError(r.t, err)
	return out
}

// TryGit runs a git command and returns its error instead of failing.
func (r *GitRepo) TryGit(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	// Avoid the developer's global config leaking into tests
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null", "GIT_EDITOR=true")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateChange writes textValue to a file named after prefix and stages it.
func (r *GitRepo) CreateChange(textValue, prefix string) {
	r.t.Helper()
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	require.NoError(r.t, os.WriteFile(filepath.Join(r.Dir, fileName), []byte(textValue), 0600))
	r.Git("add", fileName)
}

// CommitChange creates a file change and commits it with textValue as message.
// It returns the new commit.
func (r *GitRepo) CommitChange(textValue, prefix string) string {
	r.t.Helper()
	r.CreateChange(textValue, prefix)
	r.Git("commit", "-m", textValue)
	return r.Git("rev-parse", "HEAD")
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) {
	r.t.Helper()
	r.Git("checkout", "-b", name)
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) {
	r.t.Helper()
	r.Git("checkout", name)
}

// StackBranch creates name on top of the current branch and records parent
// metadata the way `stacky branch new` does.
func (r *GitRepo) StackBranch(name, parent string) {
	r.t.Helper()
	anchor := r.Revision(parent)
	r.Git("checkout", "-b", name, "--track", parent)
	r.Git("update-ref", "refs/stack-parent/"+name, anchor)
}

// Revision resolves rev to a commit.
func (r *GitRepo) Revision(rev string) string {
	r.t.Helper()
	return r.Git("rev-parse", rev)
}

// CurrentBranchName returns the name of the current branch.
func (r *GitRepo) CurrentBranchName() string {
	r.t.Helper()
	return r.Git("branch", "--show-current")
}

// RebaseInProgress checks if a rebase is in progress.
func (r *GitRepo) RebaseInProgress() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git", "rebase-merge"))
	if err == nil {
		return true
	}
	_, err = os.Stat(filepath.Join(r.Dir, ".git", "rebase-apply"))
	return err == nil
}

// CreateBareRemote creates a bare repository next to this one and adds it as a remote.
func (r *GitRepo) CreateBareRemote(name string) string {
	r.t.Helper()
	bareDir := filepath.Join(r.t.TempDir(), name+".git")
	cmd := exec.Command("git", "init", "--bare", bareDir)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	require.NoError(r.t, cmd.Run())
	r.Git("remote", "add", name, bareDir)
	return bareDir
}
