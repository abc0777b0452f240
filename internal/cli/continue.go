package cli

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/cli/helpers"
)

func newContinueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continue",
		Short: "Continue a sync stopped by a conflict",
		Long: `Continue a sync stopped by a conflict.

Finish the rebase first (fix conflicts, then git rebase --continue). The
remaining branches are synced and the original branch is checked out again.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.RunAnywhere(cmd, actions.ContinueAction)
		},
	}
}
