package actions

import (
	"fmt"

	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/git"
	"stacky.dev/stacky/internal/runtime"
)

// CommitOptions contains options for the commit and amend commands
type CommitOptions struct {
	Message    string
	Amend      bool
	AllowEmpty bool
	NoEdit     bool
}

// CommitAction commits on the current branch, then syncs everything upstack
// of it.
func CommitAction(ctx *runtime.Context, opts CommitOptions) error {
	b, err := ctx.RequireCurrent()
	if err != nil {
		return err
	}
	if b.IsRoot() {
		return stackyerrors.NewConfigurationError(b.Name, "Do not commit directly on a stack bottom")
	}
	if !b.IsSyncedWithParent() {
		return stackyerrors.NewConfigurationError(b.Name,
			fmt.Sprintf("Branch is not synced with parent %s, sync before committing", b.ParentName))
	}
	if opts.Amend && b.Commit == b.Parent().Commit {
		return stackyerrors.NewConfigurationError(b.Name, "Branch has no commits, may not amend")
	}
	if opts.NoEdit && !opts.Amend {
		return fmt.Errorf("--no-edit is only supported with --amend")
	}

	if err := ctx.Git.Commit(ctx.Context, git.CommitOptions{
		Message:    opts.Message,
		Amend:      opts.Amend,
		AllowEmpty: opts.AllowEmpty,
		NoEdit:     opts.NoEdit,
	}); err != nil {
		return err
	}
	if err := ctx.Builder.Refresh(b); err != nil {
		return err
	}
	return syncUpstack(ctx, b.Name)
}

// AmendAction amends the tip of the current branch without editing its message.
func AmendAction(ctx *runtime.Context) error {
	return CommitAction(ctx, CommitOptions{Amend: true, NoEdit: true})
}
