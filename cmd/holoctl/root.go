package main

import (
	"github.com/spf13/cobra"
	"holoframe-backend/internal/config"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWithConfig(config.LoadEnv)
}

func newRootCommandWithConfig(loadConfig func() *config.Config) *cobra.Command {
	var verbose bool
	ctx := newCommandContext(&verbose, loadConfig)

	rootCmd := &cobra.Command{
		Use:           "holoctl",
		Short:         "Operator tools for the HoloFrame backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log in development mode")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newAuthTestCommand(ctx))
	rootCmd.AddCommand(newFilesCommand(ctx))
	rootCmd.AddCommand(newJobsCommand(ctx))

	return rootCmd
}
