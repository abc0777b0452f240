package cli

import (
	"os"

	"github.com/spf13/cobra"

	"stacky.dev/stacky/internal/cli/branch"
	"stacky.dev/stacky/internal/cli/helpers"
	"stacky.dev/stacky/internal/cli/navigation"
	"stacky.dev/stacky/internal/cli/stack"
	"stacky.dev/stacky/internal/runtime"
	"stacky.dev/stacky/internal/tui"
)

// NewRootCmd creates the root cobra command. Output goes through splog.
func NewRootCmd(splog *tui.Splog, version string) *cobra.Command {
	env := &helpers.Env{Splog: splog, Dir: "."}
	return newRootCmd(env, version)
}

func newRootCmd(env *helpers.Env, version string) *cobra.Command {
	var (
		logLevel   string
		color      string
		remoteName string
	)

	rootCmd := &cobra.Command{
		Use:   "stacky",
		Short: "Stacky manages stacks of dependent git branches",
		Long: `Stacky manages stacks of dependent git branches.

Each branch records its parent and the parent commit it was last synced to,
so whole stacks can be rebased, pushed and turned into pull requests together.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := tui.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			env.Splog.SetLevel(level)
			if err := tui.SetColorMode(color); err != nil {
				return err
			}
			env.Options = runtime.Options{
				RemoteName: remoteName,
				Colorize:   color == "always" || (color == "auto" && tui.IsTerminal(os.Stdout)),
			}
			cmd.SetContext(helpers.WithEnv(cmd.Context(), env))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: critical, error, warn, warning, info or debug")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"Colorize output: always, auto or never")
	rootCmd.PersistentFlags().StringVarP(&remoteName, "remote-name", "r", runtime.DefaultRemote,
		"Remote to push to and read pull requests from")

	rootCmd.AddCommand(
		newContinueCmd(),
		navigation.NewUpCmd(),
		navigation.NewDownCmd(),
		newInfoCmd(),
		newCommitCmd(),
		newAmendCmd(),
		branch.NewBranchCmd(),
		stack.NewStackCmd(),
		stack.NewUpstackCmd(),
		stack.NewDownstackCmd(),
		newUpdateCmd(),
		newImportCmd(),
		newAdoptCmd(),
		newLandCmd(),
		// shortcuts
		stack.NewPushCmd(),
		stack.NewSyncCmd(),
		branch.NewCheckoutCmd(),
		stack.NewShortCheckoutCmd(),
	)
	return rootCmd
}

// Execute runs the command line and returns the exit status.
func Execute(splog *tui.Splog, version string, args []string) int {
	rootCmd := NewRootCmd(splog, version)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		splog.Error("%s", err.Error())
		return 1
	}
	return 0
}
