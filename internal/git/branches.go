package git

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"

	stackyerrors "stacky.dev/stacky/internal/errors"
)

// GetCurrentBranch returns the checked-out branch, or ErrNotOnBranch when HEAD is detached.
func (r *Runner) GetCurrentBranch() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", stackyerrors.ErrNotOnBranch
	}
	return head.Target().Short(), nil
}

// GetAllBranchNames returns all local branch names, sorted.
func (r *Runner) GetAllBranchNames() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	branches, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}
	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// CheckoutBranch switches the working tree to branchName.
func (r *Runner) CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.cmd.Run(ctx, "checkout", branchName)
	return err
}

// CreateTrackingBranch creates branchName at the tip of parentName, tracking
// it as upstream, and checks it out.
func (r *Runner) CreateTrackingBranch(ctx context.Context, branchName, parentName string) error {
	_, err := r.cmd.Run(ctx, "checkout", "-b", branchName, "--track", parentName)
	return err
}

// DeleteBranch force-deletes a local branch.
func (r *Runner) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := r.cmd.Run(ctx, "branch", "-D", branchName)
	return err
}

// UpdateBranchRef moves refs/heads/branchName to revision.
func (r *Runner) UpdateBranchRef(ctx context.Context, branchName, revision string) error {
	_, err := r.cmd.Run(ctx, "update-ref", plumbing.NewBranchReferenceName(branchName).String(), revision)
	return err
}

// HardReset resets the index and working tree of the current branch to revision.
func (r *Runner) HardReset(ctx context.Context, revision string) error {
	_, err := r.cmd.Run(ctx, "reset", "--hard", revision)
	return err
}
