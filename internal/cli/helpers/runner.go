package helpers

import (
	"context"

	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/runtime"
	"stacky.dev/stacky/internal/tui"
)

// Env carries the global settings from the root command to every subcommand.
type Env struct {
	Splog   *tui.Splog
	Options runtime.Options
	// Dir is the directory the repository is looked up from.
	Dir string
	// NewContext builds the runtime context; tests replace it.
	NewContext func(ctx context.Context, env *Env) (*runtime.Context, error)
}

type envKey struct{}

// WithEnv stores env in ctx.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// GetEnv returns the Env stored by the root command.
func GetEnv(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey{}).(*Env); ok {
		return env
	}
	return &Env{Splog: tui.NewSplog(), Dir: "."}
}

func newContext(cmd *cobra.Command) (*runtime.Context, error) {
	env := GetEnv(cmd.Context())
	if env.NewContext != nil {
		return env.NewContext(cmd.Context(), env)
	}
	return runtime.New(cmd.Context(), env.Dir, env.Splog, env.Options)
}

// Run is a helper that provides a runtime context to a command's execution
// function. The current branch must be in a stack.
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	if _, err := ctx.RequireCurrent(); err != nil {
		return err
	}
	return fn(ctx)
}

// RunAnywhere is Run without the current branch check.
func RunAnywhere(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	return fn(ctx)
}
