package cli

import (
	"fmt"

	"github.com/SscSPs/smb_books/internal/platform/bootstrap"
	"github.com/SscSPs/smb_books/internal/platform/config"
	"github.com/SscSPs/smb_books/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, bootstrap.NewLogger())
			if err != nil {
				return err
			}
			if applied {
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "no new migrations")
			}
			return nil
		},
	})
	return migrateCmd
}
