package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"holoframe-backend/internal/app"
	"holoframe-backend/internal/googleauth"
)

const tokenPreviewLen = 20

func newAuthTestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "auth-test",
		Short: "Mint a Google access token with the configured credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.loadConfig()
			provider := googleauth.FromSettings(app.GoogleSettings(cfg))

			out := cmd.OutOrStdout()
			checks := cfg.GoogleEnvCheck()
			for _, key := range slices.Sorted(maps.Keys(checks)) {
				fmt.Fprintf(out, "%-24s %t\n", key, checks[key])
			}

			token, err := provider.AccessToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("google authentication failed: %w", err)
			}
			if len(token) > tokenPreviewLen {
				token = token[:tokenPreviewLen]
			}

			fmt.Fprintf(out, "Method:  %s\n", provider.Method())
			fmt.Fprintf(out, "Project: %s\n", provider.ProjectID())
			fmt.Fprintf(out, "Token:   %s...\n", token)
			return nil
		},
	}
}
