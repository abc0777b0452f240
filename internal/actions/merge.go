package actions

import (
	"fmt"

	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/internal/runtime"
)

// LandOptions contains options for the land command
type LandOptions struct {
	Force bool
	// Auto enables auto-merge instead of merging now.
	Auto bool
}

// LandAction squash-merges the pull request of the bottom-most branch of the
// current stack.
func LandAction(ctx *runtime.Context, opts LandOptions) error {
	current, err := ctx.RequireCurrent()
	if err != nil {
		return err
	}
	branches := engine.Downstack(ctx.Repo, current.Name).Branches()
	if len(branches) < 2 {
		return stackyerrors.NewConfigurationError(current.Name, "May not land a stack bottom")
	}

	b := branches[1]
	if !b.IsSyncedWithParent() {
		return stackyerrors.NewConfigurationError(b.Name,
			fmt.Sprintf("Branch is not synced with parent %s, sync before landing", b.ParentName))
	}
	if !b.IsSyncedWithRemote() {
		return stackyerrors.NewRemoteMismatchError(b.Name, "push local changes before landing")
	}

	client, err := ctx.GitHub()
	if err != nil {
		return err
	}
	if err := b.LoadPRInfo(ctx.Context, client); err != nil {
		return err
	}
	pr := b.OpenPR
	if pr == nil {
		return stackyerrors.NewConfigurationError(b.Name, "Branch does not have an open PR")
	}
	if pr.Mergeable != github.MergeableMergeable {
		return stackyerrors.NewNotMergeableError(b.Name, pr.Number, pr.Mergeable)
	}

	if len(branches) > 2 {
		ctx.Splog.Warn("The `land` command only lands the bottom-most branch %s; the current stack has %d branches, ending with %s",
			b.Name, len(branches)-1, current.Name)
	}
	ctx.Splog.Info("- Will land PR #%d (%s) for branch %s into branch %s", pr.Number, pr.URL, b.Name, b.ParentName)
	if err := ctx.Confirm(opts.Force); err != nil {
		return err
	}

	head, err := ctx.Git.GetRevision(b.Name)
	if err != nil {
		return err
	}
	if err := client.MergePullRequest(ctx.Context, github.MergeOptions{
		Number:          pr.Number,
		ID:              pr.ID,
		MatchHeadCommit: head,
		Auto:            opts.Auto,
	}); err != nil {
		return fmt.Errorf("failed to merge PR #%d: %w", pr.Number, err)
	}
	ctx.Splog.Newline()
	ctx.Splog.Info("✓ Success! Run `stacky update` to update local state.")
	return nil
}
