package cli

import (
	"fmt"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/platform/config"
	"github.com/SscSPs/smb_books/internal/utils"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		orgID, userID, role string
		ttl                 time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token signed with JWT_SECRET",
		Long: `token signs a bearer token for local development and service accounts.
End users normally get their tokens from the identity provider.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgID == "" || userID == "" {
				return fmt.Errorf("--org and --user are required")
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			actor := domain.Actor{OrganizationID: orgID, UserID: userID, Role: role}
			token, err := utils.GenerateAccessToken(actor, cfg.JWTSecret, ttl, cfg.JWTIssuer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization ID")
	cmd.Flags().StringVar(&userID, "user", "", "user ID (token subject)")
	cmd.Flags().StringVar(&role, "role", domain.RoleOwner, "role name")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
