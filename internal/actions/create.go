package actions

import (
	"fmt"

	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/git"
	"stacky.dev/stacky/internal/runtime"
)

// CreateAction creates name on top of the current branch and checks it out.
func CreateAction(ctx *runtime.Context, name string) error {
	b, err := ctx.RequireCurrent()
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("branch name is required")
	}
	if err := ctx.Git.CreateTrackingBranch(ctx.Context, name, b.Name); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	if err := engine.NewMetadataStore(ctx.Git).SetParentCommit(ctx.Context, name, b.Commit, git.ZeroSHA); err != nil {
		return err
	}
	ctx.Current = name
	ctx.Splog.Info("Created branch %s on top of %s", name, b.Name)
	return nil
}
