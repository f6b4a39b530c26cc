// Package cli implements booksctl, the operator command line for SMB Books.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/platform/bootstrap"
	"github.com/SscSPs/smb_books/internal/platform/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "booksctl",
		Short:         "Operate an SMB Books deployment",
		Long:          `booksctl runs migrations, seeds charts of accounts, manages role permissions and checks ledger integrity.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newMigrateCmd(),
		newAccountsCmd(),
		newRolesCmd(),
		newIntegrityCmd(),
		newKeygenCmd(),
		newTokenCmd(),
	)
	return root
}

// withApp loads configuration, builds the application and hands it to fn.
func withApp(ctx context.Context, fn func(app *bootstrap.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app, err := bootstrap.New(ctx, cfg, bootstrap.NewLogger())
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

// operatorActor is the identity CLI mutations are recorded under.
func operatorActor(orgID, userID string) (domain.Actor, error) {
	if orgID == "" {
		return domain.Actor{}, fmt.Errorf("--org is required")
	}
	if userID == "" {
		userID = "booksctl"
	}
	return domain.Actor{OrganizationID: orgID, UserID: userID, Role: domain.RoleOwner}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
