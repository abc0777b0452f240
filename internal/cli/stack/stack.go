package stack

import (
	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/actions"
)

// NewStackCmd creates the stack command group
func NewStackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stack",
		Aliases: []string{"s"},
		Short:   "Commands that operate on the current stack",
	}
	cmd.AddCommand(
		newInfoCmd(actions.ScopeStack),
		newPushCmd(actions.ScopeStack),
		newSyncCmd(actions.ScopeStack),
		newCheckoutCmd(actions.ScopeStack),
	)
	return cmd
}

// NewDownstackCmd creates the downstack command group
func NewDownstackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "downstack",
		Aliases: []string{"ds"},
		Short:   "Commands that operate on the current branch and its ancestors",
	}
	cmd.AddCommand(
		newInfoCmd(actions.ScopeDownstack),
		newPushCmd(actions.ScopeDownstack),
		newSyncCmd(actions.ScopeDownstack),
	)
	return cmd
}

// NewPushCmd creates the push shortcut for stack push
func NewPushCmd() *cobra.Command {
	return newPushCmd(actions.ScopeStack)
}

// NewSyncCmd creates the sync shortcut for stack sync
func NewSyncCmd() *cobra.Command {
	return newSyncCmd(actions.ScopeStack)
}

// NewShortCheckoutCmd creates sco, the shortcut for stack checkout
func NewShortCheckoutCmd() *cobra.Command {
	cmd := newCheckoutCmd(actions.ScopeStack)
	cmd.Use = "sco"
	cmd.Aliases = nil
	return cmd
}
