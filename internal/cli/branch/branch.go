// Package branch provides the commands that work on a single branch.
package branch

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/cli/helpers"
	"stacky.dev/stacky/internal/cli/navigation"
	"stacky.dev/stacky/internal/runtime"
)

// NewBranchCmd creates the branch command group
func NewBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Aliases: []string{"b"},
		Short:   "Commands that operate on one branch",
	}
	cmd.AddCommand(
		navigation.NewUpCmd(),
		navigation.NewDownCmd(),
		NewCreateCmd(),
		NewCheckoutCmd(),
	)
	return cmd
}

// NewCreateCmd creates the branch new command
func NewCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "new <name>",
		Aliases:      []string{"create"},
		Short:        "Create a branch on top of the current one",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CreateAction(ctx, args[0])
			})
		},
	}
}

// NewCheckoutCmd creates the checkout command
func NewCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "checkout [name]",
		Aliases: []string{"co"},
		Short:   "Check out a branch, picked from every stack when no name is given",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return helpers.CompleteBranches(cmd, args, toComplete)
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				name := ""
				if len(args) > 0 {
					name = args[0]
				}
				forest, err := actions.ScopeAll.Forest(ctx)
				if err != nil {
					return err
				}
				return actions.CheckoutAction(ctx, name, forest)
			})
		},
	}
}
