package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/SscSPs/smb_books/internal/platform/bootstrap"
	"github.com/spf13/cobra"
)

func newAccountsCmd() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage charts of accounts",
	}

	var orgID, userID string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Seed the default chart of accounts for an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := operatorActor(orgID, userID)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(app *bootstrap.App) error {
				accounts, err := app.Services.Account.InitializeDefaultAccounts(cmd.Context(), actor)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tSUBTYPE")
				for _, a := range accounts {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Code, a.Name, a.AccountType, a.SubType)
				}
				return tw.Flush()
			})
		},
	}
	initCmd.Flags().StringVar(&orgID, "org", "", "organization ID")
	initCmd.Flags().StringVar(&userID, "user", "", "user ID recorded as creator")

	accountsCmd.AddCommand(initCmd)
	return accountsCmd
}
