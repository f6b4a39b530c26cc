package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankAccountRepository persists bank accounts. Account numbers cross this
// boundary in plaintext; encryption at rest is the implementation's concern.
type BankAccountRepository interface {
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	UpdateBankAccount(ctx context.Context, account domain.BankAccount) error
	SoftDeleteBankAccount(ctx context.Context, orgID, bankAccountID, userID string, now time.Time) error

	FindBankAccountByID(ctx context.Context, orgID, bankAccountID string) (*domain.BankAccount, error)

	// FindBankAccountsForUpdate locks the rows until the transaction ends.
	FindBankAccountsForUpdate(ctx context.Context, orgID string, bankAccountIDs []string) (map[string]domain.BankAccount, error)

	ListBankAccounts(ctx context.Context, orgID string) ([]domain.BankAccount, error)

	// AdjustBankBalance adds delta to current_balance atomically.
	AdjustBankBalance(ctx context.Context, orgID, bankAccountID string, delta decimal.Decimal, userID string, now time.Time) error

	// ClearPrimary unsets is_primary on every account of the org except exceptID.
	ClearPrimary(ctx context.Context, orgID, exceptID, userID string, now time.Time) error

	UpdateReconciliationInfo(ctx context.Context, orgID, bankAccountID string, date time.Time, balance decimal.Decimal, userID string, now time.Time) error
}

// ListBankTransactionsFilter narrows ListBankTransactions.
type ListBankTransactionsFilter struct {
	BankAccountID string
	Unreconciled  bool
	Limit         int
	NextToken     *string
}

// BankTransactionRepository persists bank transactions.
type BankTransactionRepository interface {
	SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error

	// UpdateBankTransactionDetails writes description, category, reference and date only.
	UpdateBankTransactionDetails(ctx context.Context, txn domain.BankTransaction) error

	SetJournalEntryID(ctx context.Context, orgID string, transactionIDs []string, entryID, userID string, now time.Time) error

	// MarkReconciled flags the transactions and returns how many rows changed.
	MarkReconciled(ctx context.Context, orgID string, transactionIDs []string, at time.Time, userID string) (int64, error)

	SoftDeleteBankTransactions(ctx context.Context, orgID string, transactionIDs []string, userID string, now time.Time) error

	FindBankTransactionByID(ctx context.Context, orgID, transactionID string) (*domain.BankTransaction, error)
	FindBankTransactionsByIDs(ctx context.Context, orgID string, transactionIDs []string) (map[string]domain.BankTransaction, error)

	// ListBankTransactions returns transactions newest first and a token for the next page.
	ListBankTransactions(ctx context.Context, orgID string, filter ListBankTransactionsFilter) ([]domain.BankTransaction, *string, error)
}

// BankTransferRepository persists the transfer records linking two legs.
type BankTransferRepository interface {
	SaveBankTransfer(ctx context.Context, transfer domain.BankTransfer) error
	SetTransferJournalEntryID(ctx context.Context, orgID, transferID, entryID, userID string, now time.Time) error
	SoftDeleteBankTransfer(ctx context.Context, orgID, transferID, userID string, now time.Time) error
	FindBankTransferByID(ctx context.Context, orgID, transferID string) (*domain.BankTransfer, error)
	ListBankTransfers(ctx context.Context, orgID string, limit int, nextToken *string) ([]domain.BankTransfer, *string, error)
}

// ReconciliationRepository persists bank reconciliations.
type ReconciliationRepository interface {
	SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error

	// UpdateReconciliation writes status, completion fields, transaction ids and notes.
	UpdateReconciliation(ctx context.Context, rec domain.BankReconciliation) error

	FindReconciliationByID(ctx context.Context, orgID, reconciliationID string) (*domain.BankReconciliation, error)

	// FindReconciliationForUpdate locks the row until the transaction ends.
	FindReconciliationForUpdate(ctx context.Context, orgID, reconciliationID string) (*domain.BankReconciliation, error)

	ListReconciliations(ctx context.Context, orgID, bankAccountID string) ([]domain.BankReconciliation, error)
}
