package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// Rebase replays the commits of branchName after from onto onto:
// git rebase --onto <onto> <from> <branchName>. The branch is left checked
// out. When git stops on a conflict the rebase is left in progress so the
// user can resolve it and run `git rebase --continue`.
func (r *Runner) Rebase(ctx context.Context, branchName, onto, from string) (RebaseResult, error) {
	_, err := r.cmd.Run(ctx, "rebase", "--onto", onto, from, branchName)
	if err != nil {
		if r.IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase of %s failed: %w", branchName, err)
	}
	return RebaseDone, nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func (r *Runner) IsRebaseInProgress(ctx context.Context) bool {
	gitDir, err := r.cmd.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false
	}
	// Check for .git/rebase-merge or .git/rebase-apply directories
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(gitDir, dir)); err == nil {
			return true
		}
	}
	return false
}
