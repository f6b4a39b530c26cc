package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/smb_books/internal/core/domain"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/hibiken/asynq"
)

// ErrIntegrityViolation is returned when a sweep finds drift or unbalanced entries.
// Retrying would not help, so the handler wraps it with asynq.SkipRetry.
var ErrIntegrityViolation = errors.New("ledger integrity violation")

// IntegritySweepJob runs the reporting integrity check for one or all organizations.
type IntegritySweepJob struct {
	Reporting portssvc.ReportingSvc
	Logger    *slog.Logger
}

// NewIntegritySweepJob initialises the sweep handler.
func NewIntegritySweepJob(reporting portssvc.ReportingSvc, logger *slog.Logger) *IntegritySweepJob {
	return &IntegritySweepJob{Reporting: reporting, Logger: logger}
}

// Handle executes the sweep.
func (j *IntegritySweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reporting == nil {
		return errors.New("integrity sweep: handler not configured")
	}
	var payload IntegritySweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("integrity sweep payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	logger := j.logger().With(slog.String("task", TaskLedgerIntegritySweep))
	var (
		reports []domain.IntegrityReport
		err     error
	)
	if payload.OrganizationID != "" {
		logger = logger.With(slog.String("org_id", payload.OrganizationID))
		var report *domain.IntegrityReport
		report, err = j.Reporting.CheckLedgerIntegrity(ctx, payload.OrganizationID)
		if report != nil {
			reports = []domain.IntegrityReport{*report}
		}
	} else {
		reports, err = j.Reporting.CheckAllOrganizations(ctx)
	}
	if err != nil {
		logger.Error("integrity sweep failed", slog.Any("error", err))
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.OK() {
			continue
		}
		failed++
		logger.Warn("ledger integrity problem",
			slog.String("org_id", r.OrganizationID),
			slog.Int("drifted_accounts", len(r.DriftedAccounts)),
			slog.Int("unbalanced_entries", len(r.UnbalancedEntries)),
			slog.Bool("ledger_balanced", r.LedgerBalanced))
	}
	logger.Info("integrity sweep finished", slog.Int("organizations", len(reports)), slog.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%w in %d organization(s): %w", ErrIntegrityViolation, failed, asynq.SkipRetry)
	}
	return nil
}

func (j *IntegritySweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
