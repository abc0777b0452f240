package cli

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/cli/helpers"
	"stacky.dev/stacky/internal/runtime"
)

func newCommitCmd() *cobra.Command {
	var opts actions.CommitOptions

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit on the current branch and sync its upstack",
		Long: `Commit on the current branch and sync its upstack.

Runs git commit, then rebases every branch stacked on the current one.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CommitAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Commit message")
	cmd.Flags().BoolVar(&opts.Amend, "amend", false, "Amend the last commit")
	cmd.Flags().BoolVar(&opts.AllowEmpty, "allow-empty", false, "Allow an empty commit")
	cmd.Flags().BoolVar(&opts.NoEdit, "no-edit", false, "Keep the message when amending")
	return cmd
}

func newAmendCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "amend",
		Short:        "Amend the last commit without editing it and sync the upstack",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.AmendAction)
		},
	}
}
