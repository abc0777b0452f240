package git

import (
	"context"
	"fmt"
)

// PushBranch pushes branchName to remoteBranch on remote. With force the
// remote branch is overwritten.
func (r *Runner) PushBranch(ctx context.Context, remote, branchName, remoteBranch string, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, remote, fmt.Sprintf("%s:%s", branchName, remoteBranch))
	if _, err := r.cmd.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}
	return nil
}

// Fetch updates the remote-tracking refs of remote.
func (r *Runner) Fetch(ctx context.Context, remote string) error {
	if _, err := r.cmd.Run(ctx, "fetch", remote); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}
