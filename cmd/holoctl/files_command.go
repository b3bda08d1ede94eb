package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"holoframe-backend/internal/services"
	"holoframe-backend/internal/supabase"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Inspect and remove stored bucket objects",
	}
	filesCmd.AddCommand(newFilesListCommand(ctx))
	filesCmd.AddCommand(newFilesDeleteCommand(ctx))
	return filesCmd
}

func (c *commandContext) library() (*services.LibraryService, error) {
	cfg, err := c.validConfig()
	if err != nil {
		return nil, err
	}
	storage, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseStorageBucket)
	if err != nil {
		return nil, err
	}
	// Nicknames are only needed by the archive.
	return services.NewLibraryService(storage, nil, c.logger()), nil
}

func newFilesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [folder]",
		Short: "List objects in one folder or in all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := ""
			if len(args) == 1 {
				folder = args[0]
			}

			lib, err := ctx.library()
			if err != nil {
				return err
			}
			files, err := lib.ListFiles(cmd.Context(), folder)
			if err != nil {
				return err
			}

			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No files")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderFiles(files))
			return nil
		},
	}
}

func newFilesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <folder/file>",
		Short: "Delete one stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.library()
			if err != nil {
				return err
			}
			if err := lib.DeleteFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
