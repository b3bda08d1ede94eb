package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"holoframe-backend/internal/app"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Work with asynchronous generation jobs",
	}
	jobsCmd.AddCommand(&cobra.Command{
		Use:   "poll",
		Short: "Advance every pending job once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				n, err := a.Poller().RunOnce(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Processed %d pending job(s)\n", n)
				return nil
			})
		},
	})
	return jobsCmd
}
