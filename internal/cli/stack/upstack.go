package stack

import (
	"fmt"

	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/cli/helpers"
	"stacky.dev/stacky/internal/runtime"
)

// NewUpstackCmd creates the upstack command group
func NewUpstackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "upstack",
		Aliases: []string{"us"},
		Short:   "Commands that operate on the current branch and its descendants",
	}
	cmd.AddCommand(
		newInfoCmd(actions.ScopeUpstack),
		newPushCmd(actions.ScopeUpstack),
		newSyncCmd(actions.ScopeUpstack),
		newOntoCmd(),
		newAsCmd(),
	)
	return cmd
}

func newOntoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "onto <target>",
		Aliases: []string{"restack"},
		Short:   "Move the current branch and its descendants onto target",
		Long: `Move the current branch and its descendants onto target.

The current branch becomes a child of target and the moved branches are
rebased. target may not be one of the moved branches.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.OntoAction(ctx, args[0])
			})
		},
	}
}

func newAsCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "as bottom",
		Short:        "Make the current branch the bottom of a new stack",
		Args:         cobra.ExactArgs(1),
		ValidArgs:    []string{"bottom"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "bottom" {
				return fmt.Errorf("invalid target %s, acceptable targets are [bottom]", args[0])
			}
			return helpers.Run(cmd, actions.AsBottomAction)
		},
	}
}
