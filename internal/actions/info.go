package actions

import (
	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/runtime"
)

// InfoOptions contains options for the info commands
type InfoOptions struct {
	// PR loads and shows the open pull request of every branch.
	PR bool
}

// InfoAction prints forest.
func InfoAction(ctx *runtime.Context, forest engine.Forest, opts InfoOptions) error {
	if opts.PR {
		if err := ctx.LoadPRInfo(forest); err != nil {
			return err
		}
	}
	ctx.PrintForest(forest)
	return nil
}
