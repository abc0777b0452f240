package actions

import (
	"fmt"

	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/runtime"
)

// OntoAction moves the current branch and its upstack on top of target.
func OntoAction(ctx *runtime.Context, target string) error {
	b, err := ctx.RequireCurrent()
	if err != nil {
		return err
	}
	if b.IsRoot() {
		return stackyerrors.NewConfigurationError(b.Name, "may not upstack a stack bottom, use stacky adopt")
	}
	if !ctx.Repo.Has(target) {
		return stackyerrors.NewConfigurationError(target, "Target branch is not in a stack")
	}
	if engine.Upstack(ctx.Repo, b.Name).Contains(target) {
		return stackyerrors.NewConfigurationError(b.Name, fmt.Sprintf("Target branch %s is upstack of branch", target))
	}

	if err := engine.NewMetadataStore(ctx.Git).SetParent(ctx.Context, b.Name, target, false); err != nil {
		return err
	}
	if err := ctx.Repo.Reparent(b.Name, target); err != nil {
		return err
	}
	return syncUpstack(ctx, b.Name)
}

// AsBottomAction turns the current branch into the bottom of a new stack.
func AsBottomAction(ctx *runtime.Context) error {
	b, err := ctx.RequireCurrent()
	if err != nil {
		return err
	}
	if b.IsRoot() {
		return stackyerrors.NewConfigurationError(b.Name, "Branch is already a stack bottom")
	}

	meta := engine.NewMetadataStore(ctx.Git)
	if err := meta.SetParent(ctx.Context, b.Name, "", false); err != nil {
		return err
	}
	if err := meta.MarkBottom(ctx.Context, b.Name, b.Commit); err != nil {
		return err
	}
	if err := ctx.Repo.Reparent(b.Name, ""); err != nil {
		return err
	}
	ctx.Splog.Info("Set %s as new bottom branch", b.Name)
	return nil
}
