package cli

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/cli/helpers"
	"stacky.dev/stacky/internal/runtime"
)

func newInfoCmd() *cobra.Command {
	var pr bool

	cmd := &cobra.Command{
		Use:          "info",
		Short:        "Show every stack",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				forest, err := actions.ScopeAll.Forest(ctx)
				if err != nil {
					return err
				}
				return actions.InfoAction(ctx, forest, actions.InfoOptions{PR: pr})
			})
		},
	}

	cmd.Flags().BoolVar(&pr, "pr", false, "Show the open pull request of each branch")
	return cmd
}
