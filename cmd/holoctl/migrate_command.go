package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"holoframe-backend/internal/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.loadConfig()
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			migrator, err := database.NewMigrator(cfg.DatabaseURL, ctx.logger())
			if err != nil {
				return err
			}
			defer migrator.Close()

			applied, err := migrator.Run(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
			}
			return nil
		},
	}
}
