package services

import (
	"context"

	"github.com/SscSPs/smb_books/internal/core/domain"
)

// ReportingSvc produces read-only views over the ledger.
type ReportingSvc interface {
	TrialBalance(ctx context.Context, actor domain.Actor) (*domain.TrialBalance, error)

	// CheckLedgerIntegrity sweeps one organization. It performs no authorization
	// and is meant for the API layer after a permission check, the CLI and the worker.
	CheckLedgerIntegrity(ctx context.Context, orgID string) (*domain.IntegrityReport, error)

	// CheckAllOrganizations sweeps every organization with write access.
	CheckAllOrganizations(ctx context.Context) ([]domain.IntegrityReport, error)
}
