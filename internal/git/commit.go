package git

import (
	"context"
	"fmt"
)

// CommitOptions contains options for creating a commit
type CommitOptions struct {
	Message    string
	Amend      bool
	AllowEmpty bool
	NoEdit     bool
}

// Args returns the git commit arguments for opts.
func (opts CommitOptions) Args() []string {
	args := []string{"commit"}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if opts.Amend {
		args = append(args, "--amend")
		if opts.NoEdit {
			args = append(args, "--no-edit")
		}
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	return args
}

// Commit runs git commit attached to the terminal so the editor can open.
func (r *Runner) Commit(ctx context.Context, opts CommitOptions) error {
	if err := r.cmd.RunInteractive(ctx, opts.Args()...); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
