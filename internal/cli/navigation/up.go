// Package navigation provides the commands that move between branches of a stack.
package navigation

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/cli/helpers"
)

// NewUpCmd creates the up command
func NewUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "up",
		Aliases: []string{"u"},
		Short:   "Switch to the child of the current branch",
		Long: `Switch to the child of the current branch.

If several children exist, you will be prompted to select one.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.UpAction)
		},
	}
}
