package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gix-network/gcam/app"
	"github.com/gix-network/gcam/x/clearing/client/cli"
)

const (
	// FlagHome names the directory holding config/gcam.toml and the data dir.
	FlagHome = "home"
)

// NewRootCmd creates a new root command for gcamd. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gcamd",
		Short: "GIX clearing and auction daemon",
		Long: `gcamd matches inference jobs to compute providers and network routes,
prices them, and keeps provider utilization and auction statistics in an
embedded database that survives restarts.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().String(FlagHome, resolveHome(), "directory for config and data")

	rootCmd.AddCommand(
		InitCmd(),
		StartCmd(),
		ValidateGenesisCmd(),
		cli.GetQueryCmd(),
		cli.GetTxCmd(),
	)

	return rootCmd
}

// resolveHome honors GCAM_HOME before the default home.
func resolveHome() string {
	if home := os.Getenv(app.EnvPrefix + "_HOME"); home != "" {
		return home
	}
	return app.DefaultNodeHome
}

func homeFromCmd(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString(FlagHome)
}
