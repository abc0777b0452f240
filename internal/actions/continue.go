package actions

import (
	"errors"
	"fmt"

	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/runtime"
)

// ContinueAction resumes a sync stopped by a conflict, once the user has
// finished the rebase by hand.
func ContinueAction(ctx *runtime.Context) error {
	syncer := engine.NewSyncer(ctx.Git, ctx.Repo, ctx.StateStore, ctx.Splog)
	if err := syncer.Resume(ctx.Context); err != nil {
		if errors.Is(err, stackyerrors.ErrNoSyncInProgress) {
			return fmt.Errorf("no previous command in progress: %w", err)
		}
		return syncFailed(ctx, err)
	}
	if rebased := syncer.Rebased(); len(rebased) > 0 {
		ctx.Splog.Debug("Rebased after resume: %v", rebased)
	}
	return nil
}

// syncFailed adds guidance to a stopped sync.
func syncFailed(ctx *runtime.Context, err error) error {
	if errors.Is(err, stackyerrors.ErrSyncConflict) {
		ctx.Splog.Tip("Complete the rebase (fix conflicts; `git rebase --continue`), then run `stacky continue`.")
	}
	return err
}
