package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
)

// ListAccountsFilter narrows ListAccounts.
type ListAccountsFilter struct {
	AccountType     domain.AccountType
	IncludeInactive bool
}

// AccountReader defines read operations for account data.
// Soft-deleted accounts are never returned.
type AccountReader interface {
	// FindAccountByID retrieves a specific account of the organization.
	FindAccountByID(ctx context.Context, orgID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts lists the chart of accounts ordered by code.
	ListAccounts(ctx context.Context, orgID string, filter ListAccountsFilter) ([]domain.Account, error)

	// CountAccounts counts accounts including soft-deleted ones.
	CountAccounts(ctx context.Context, orgID string) (int, error)

	// HasJournalLines reports whether any journal line references the account.
	HasJournalLines(ctx context.Context, orgID, accountID string) (bool, error)

	// HasLinkedBankAccounts reports whether a non-deleted bank account posts to the account.
	HasLinkedBankAccounts(ctx context.Context, orgID, accountID string) (bool, error)
}

// ContraAccountFinder looks up active accounts for contra-account resolution.
// Every method skips excludeID and returns apperrors.ErrNotFound when nothing matches.
type ContraAccountFinder interface {
	// FindAccountByName matches the whole name case-insensitively.
	FindAccountByName(ctx context.Context, orgID, name, excludeID string) (*domain.Account, error)

	// FindAccountByNameContaining returns the lowest-code account whose name contains fragment, case-insensitively.
	FindAccountByNameContaining(ctx context.Context, orgID, fragment, excludeID string) (*domain.Account, error)

	// FindAccountByTypeAndSubType returns the lowest-code account of the pair.
	FindAccountByTypeAndSubType(ctx context.Context, orgID string, accountType domain.AccountType, subType, excludeID string) (*domain.Account, error)

	// FindFirstAccountByType returns the lowest-code account of the type.
	FindFirstAccountByType(ctx context.Context, orgID string, accountType domain.AccountType, excludeID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an account's descriptive fields and active flag.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// MarkAccountAsParent flags an account as having children.
	MarkAccountAsParent(ctx context.Context, orgID, accountID, userID string, now time.Time) error

	// SoftDeleteAccount sets deleted_at.
	SoftDeleteAccount(ctx context.Context, orgID, accountID, userID string, now time.Time) error
}

// AccountBalanceSupport applies postings to running balances.
// Both methods must run inside a TransactionManager unit of work.
type AccountBalanceSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them until the transaction ends.
	FindAccountsByIDsForUpdate(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltas increments debit and credit balances and recomputes current balances.
	ApplyBalanceDeltas(ctx context.Context, orgID string, deltas map[string]domain.BalanceDelta, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	ContraAccountFinder
	AccountWriter
	AccountBalanceSupport
}
