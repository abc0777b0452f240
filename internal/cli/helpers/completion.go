// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/git"
)

// CompleteBranches is a helper for cobra.ValidArgsFunction that returns all
// branch names in the repository.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	runner, err := git.NewRunner(cmd.Context(), GetEnv(cmd.Context()).Dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := runner.GetAllBranchNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}
