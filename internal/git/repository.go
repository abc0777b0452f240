package git

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ZeroSHA as an expected old value makes a ref update fail if the ref exists.
const ZeroSHA = "0000000000000000000000000000000000000000"

// Repository wraps a go-git repository
type Repository struct {
	*git.Repository
	path string
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// Runner is the Ref Store adapter: reads go through go-git, mutations through
// the git CLI so hooks, the index, and the working tree stay consistent.
type Runner struct {
	repo   *Repository
	cmd    *CommandRunner
	root   string
	gitDir string

	// go-git object access is not safe for concurrent use
	mu sync.Mutex
}

// NewRunner opens the repository at dir and returns a Runner for it.
func NewRunner(ctx context.Context, dir string) (*Runner, error) {
	cmd := NewCommandRunner(dir)
	root, err := cmd.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	gitDir, err := cmd.Run(ctx, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return nil, err
	}
	repo, err := OpenRepository(root)
	if err != nil {
		return nil, err
	}
	return &Runner{
		repo:   repo,
		cmd:    NewCommandRunner(root),
		root:   root,
		gitDir: gitDir,
	}, nil
}

// RepoRoot returns the top-level directory of the working tree.
func (r *Runner) RepoRoot() string {
	return r.root
}

// GitDir returns the common git directory.
func (r *Runner) GitDir() string {
	return r.gitDir
}

// Command returns the underlying CLI runner.
func (r *Runner) Command() *CommandRunner {
	return r.cmd
}

// SetCommand replaces the CLI runner, e.g. to add environment variables.
func (r *Runner) SetCommand(cmd *CommandRunner) {
	r.cmd = cmd
}

// resolveRefHash resolves a full ref, a branch, or any revision to a hash.
func (r *Runner) resolveRefHash(ref string) (plumbing.Hash, error) {
	if h, err := r.repo.Reference(plumbing.ReferenceName(ref), true); err == nil {
		return h.Hash(), nil
	}
	if h, err := r.repo.Reference(plumbing.NewBranchReferenceName(ref), true); err == nil {
		return h.Hash(), nil
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return *hash, nil
}
