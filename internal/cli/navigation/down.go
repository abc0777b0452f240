package navigation

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/cli/helpers"
)

// NewDownCmd creates the down command
func NewDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "down",
		Aliases:      []string{"d"},
		Short:        "Switch to the parent of the current branch",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.DownAction)
		},
	}
}
