package cli

import (
	"fmt"

	"github.com/SscSPs/smb_books/internal/platform/bootstrap"
	"github.com/spf13/cobra"
)

func newRolesCmd() *cobra.Command {
	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage role permissions",
	}

	var (
		orgID, userID string
		permissions   []string
	)
	setCmd := &cobra.Command{
		Use:   "set <role>",
		Short: "Replace the permissions granted to a role",
		Example: `  booksctl roles set accountant --org 7f0c... \
    --perm accounts_create --perm journalEntries_create --perm reports_view`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := operatorActor(orgID, userID)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(app *bootstrap.App) error {
				if err := app.Services.Access.SetRolePermissions(cmd.Context(), actor, args[0], permissions); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "role %s now has %d permission(s)\n", args[0], len(permissions))
				return nil
			})
		},
	}
	setCmd.Flags().StringVar(&orgID, "org", "", "organization ID")
	setCmd.Flags().StringVar(&userID, "user", "", "user ID recorded in the audit log")
	setCmd.Flags().StringSliceVar(&permissions, "perm", nil, "permission key to grant (repeatable)")

	rolesCmd.AddCommand(setCmd)
	return rolesCmd
}
