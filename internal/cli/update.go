package cli

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/cli/helpers"
	"stacky.dev/stacky/internal/runtime"
)

func newUpdateCmd() *cobra.Command {
	var opts actions.UpdateOptions

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch stack bottoms and delete branches whose pull request was merged",
		Long: `Fetch stack bottoms and delete branches whose pull request was merged.

Every stack bottom is reset to its remote branch. Children of a deleted branch
are reparented onto its parent; run sync afterwards to rebase them.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.UpdateAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Delete without asking for confirmation")
	return cmd
}

func newImportCmd() *cobra.Command {
	var opts actions.ImportOptions

	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Rebuild stack metadata from the pull requests of a branch and its bases",
		Long: `Rebuild stack metadata from the pull requests of a branch and its bases.

Follows the base of each open pull request down to a stack bottom and records
every branch on the way as a child of its pull request's base.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ImportAction(ctx, args[0], opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Import without asking for confirmation")
	return cmd
}

func newAdoptCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "adopt <name>",
		Short:             "Stack an untracked branch on the current stack bottom",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.AdoptAction(ctx, args[0])
			})
		},
	}
}

func newLandCmd() *cobra.Command {
	var opts actions.LandOptions

	cmd := &cobra.Command{
		Use:   "land",
		Short: "Squash-merge the pull request of the bottom-most branch of the stack",
		Long: `Squash-merge the pull request of the bottom-most branch of the stack.

The branch must be synced with its parent and its remote, and its pull request
must be mergeable. Run update afterwards to clean up.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.LandAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Land without asking for confirmation")
	cmd.Flags().BoolVar(&opts.Auto, "auto", false, "Enable auto-merge instead of merging now")
	return cmd
}
