package repositories

import (
	"context"

	"github.com/SscSPs/smb_books/internal/core/domain"
)

// ReportingRepository defines the integrity queries run by the ledger sweep.
type ReportingRepository interface {
	// FindDriftedAccounts returns accounts whose current balance differs from debit - credit.
	FindDriftedAccounts(ctx context.Context, orgID string) ([]domain.AccountDrift, error)

	// FindUnbalancedEntries returns posted entries whose lines do not balance.
	FindUnbalancedEntries(ctx context.Context, orgID string) ([]domain.UnbalancedEntry, error)
}
