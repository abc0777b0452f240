package actions

import (
	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/runtime"
)

// SyncOptions contains options for the sync command
type SyncOptions struct {
	// DryRun prints the plan without rebasing.
	DryRun bool
}

// SyncAction rebases every branch of forest that is off its parent's tip,
// then returns to the branch that was checked out.
func SyncAction(ctx *runtime.Context, forest engine.Forest, opts SyncOptions) error {
	ctx.PrintForest(forest)
	syncer := engine.NewSyncer(ctx.Git, ctx.Repo, ctx.StateStore, ctx.Splog)
	syncer.DryRun = opts.DryRun
	if err := syncer.Sync(ctx.Context, forest, ctx.Current); err != nil {
		return syncFailed(ctx, err)
	}
	if opts.DryRun {
		ctx.Splog.Info("Dry run, nothing was changed.")
	}
	return nil
}

// syncUpstack syncs the upstack of branch without printing it, as other
// commands do after moving a branch.
func syncUpstack(ctx *runtime.Context, branch string) error {
	syncer := engine.NewSyncer(ctx.Git, ctx.Repo, ctx.StateStore, ctx.Splog)
	if err := syncer.Sync(ctx.Context, engine.Upstack(ctx.Repo, branch), ctx.Current); err != nil {
		return syncFailed(ctx, err)
	}
	return nil
}
