// Package stack provides the commands that operate on a stack, or on the part
// of it above or below the current branch.
package stack

import (
	"fmt"

	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/actions/push"
	"stacky.dev/stacky/internal/cli/helpers"
	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/runtime"
)

// withForest runs fn on the part of the graph selected by scope.
func withForest(cmd *cobra.Command, scope actions.Scope, fn func(ctx *runtime.Context, forest engine.Forest) error) error {
	return helpers.Run(cmd, func(ctx *runtime.Context) error {
		forest, err := scope.Forest(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, forest)
	})
}

func newInfoCmd(scope actions.Scope) *cobra.Command {
	var pr bool

	cmd := &cobra.Command{
		Use:          "info",
		Aliases:      []string{"i"},
		Short:        fmt.Sprintf("Show the %s", describe(scope)),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withForest(cmd, scope, func(ctx *runtime.Context, forest engine.Forest) error {
				return actions.InfoAction(ctx, forest, actions.InfoOptions{PR: pr})
			})
		},
	}

	cmd.Flags().BoolVar(&pr, "pr", false, "Show the open pull request of each branch")
	return cmd
}

func newPushCmd(scope actions.Scope) *cobra.Command {
	var opts push.Options

	cmd := &cobra.Command{
		Use:   "push",
		Short: fmt.Sprintf("Push the %s and create or retarget pull requests", describe(scope)),
		Long: fmt.Sprintf(`Push the %s and create or retarget pull requests.

Every branch must be synced with its parent. Branches are force pushed to the
remote branch of the same name. A branch without an open pull request gets
one against its parent; an open pull request against another base is
retargeted at the parent.`, describe(scope)),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withForest(cmd, scope, func(ctx *runtime.Context, forest engine.Forest) error {
				return push.Action(ctx, forest, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Push without asking for confirmation")
	cmd.Flags().BoolVar(&opts.NoPR, "no-pr", false, "Skip pull request creation and retargeting")
	return cmd
}

func newSyncCmd(scope actions.Scope) *cobra.Command {
	var opts actions.SyncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: fmt.Sprintf("Rebase the %s onto the current parent tips", describe(scope)),
		Long: fmt.Sprintf(`Rebase the %s onto the current parent tips.

A conflict stops the sync; fix it, run git rebase --continue, then stacky continue.`, describe(scope)),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withForest(cmd, scope, func(ctx *runtime.Context, forest engine.Forest) error {
				return actions.SyncAction(ctx, forest, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the plan without rebasing")
	return cmd
}

func newCheckoutCmd(scope actions.Scope) *cobra.Command {
	return &cobra.Command{
		Use:          "checkout",
		Aliases:      []string{"co"},
		Short:        fmt.Sprintf("Check out a branch picked from the %s", describe(scope)),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withForest(cmd, scope, func(ctx *runtime.Context, forest engine.Forest) error {
				return actions.CheckoutAction(ctx, "", forest)
			})
		},
	}
}

func describe(scope actions.Scope) string {
	switch scope {
	case actions.ScopeUpstack:
		return "current branch and its descendants"
	case actions.ScopeDownstack:
		return "current branch and its ancestors"
	default:
		return "current stack"
	}
}
