package cli

import (
	"fmt"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/jobs"
	"github.com/SscSPs/smb_books/internal/platform/bootstrap"
	"github.com/SscSPs/smb_books/internal/platform/config"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
)

func newIntegrityCmd() *cobra.Command {
	integrityCmd := &cobra.Command{
		Use:   "integrity",
		Short: "Check ledger integrity",
	}

	var (
		orgID   string
		enqueue bool
	)
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Recompute balances and report drift for one or all organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if enqueue {
				cfg, err := config.LoadConfig()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				client := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
				defer client.Close()
				info, err := client.EnqueueIntegritySweep(cmd.Context(), orgID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s on queue %s\n", info.ID, info.Queue)
				return nil
			}

			return withApp(cmd.Context(), func(app *bootstrap.App) error {
				var reports []domain.IntegrityReport
				if orgID != "" {
					report, err := app.Services.Reporting.CheckLedgerIntegrity(cmd.Context(), orgID)
					if err != nil {
						return err
					}
					reports = append(reports, *report)
				} else {
					var err error
					if reports, err = app.Services.Reporting.CheckAllOrganizations(cmd.Context()); err != nil {
						return err
					}
				}
				if err := printJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
				for _, r := range reports {
					if !r.OK() {
						return fmt.Errorf("%w: organization %s", jobs.ErrIntegrityViolation, r.OrganizationID)
					}
				}
				return nil
			})
		},
	}
	checkCmd.Flags().StringVar(&orgID, "org", "", "organization ID (default: all organizations)")
	checkCmd.Flags().BoolVar(&enqueue, "enqueue", false, "hand the sweep to the worker instead of running it here")

	integrityCmd.AddCommand(checkCmd)
	return integrityCmd
}
