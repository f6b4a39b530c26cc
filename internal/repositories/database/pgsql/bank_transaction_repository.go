package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books/internal/models"
	"github.com/SscSPs/smb_books/internal/utils/mapping"
	"github.com/SscSPs/smb_books/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankTransactionRepository struct {
	BaseRepository
}

func newPgxBankTransactionRepository(pool *pgxpool.Pool) *PgxBankTransactionRepository {
	return &PgxBankTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankTransactionRepository = (*PgxBankTransactionRepository)(nil)

const bankTxnColumns = `transaction_id, organization_id, bank_account_id, transaction_number, transaction_date,
	transaction_type, direction, amount, description, category, reference, is_reconciled, reconciled_date,
	journal_entry_id, transfer_id, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanBankTransaction(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.OrganizationID,
		&m.BankAccountID,
		&m.TransactionNumber,
		&m.TransactionDate,
		&m.TransactionType,
		&m.Direction,
		&m.Amount,
		&m.Description,
		&m.Category,
		&m.Reference,
		&m.IsReconciled,
		&m.ReconciledDate,
		&m.JournalEntryID,
		&m.TransferID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func collectBankTransactions(rows pgx.Rows) ([]models.BankTransaction, error) {
	defer rows.Close()
	out := []models.BankTransaction{}
	for rows.Next() {
		m, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank transaction rows: %w", err)
	}
	return out, nil
}

func (r *PgxBankTransactionRepository) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	m := mapping.ToModelBankTransaction(txn)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO bank_transactions (`+bankTxnColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);`,
		m.TransactionID,
		m.OrganizationID,
		m.BankAccountID,
		m.TransactionNumber,
		m.TransactionDate,
		m.TransactionType,
		m.Direction,
		m.Amount,
		m.Description,
		m.Category,
		m.Reference,
		m.IsReconciled,
		m.ReconciledDate,
		m.JournalEntryID,
		m.TransferID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DeletedAt,
	)
	return translateError(err, "Transaction", "failed to insert bank transaction "+m.TransactionID)
}

// UpdateBankTransactionDetails writes description, category, reference and date only.
func (r *PgxBankTransactionRepository) UpdateBankTransactionDetails(ctx context.Context, txn domain.BankTransaction) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_transactions
		SET description = $3, category = $4, reference = $5, transaction_date = $6, last_updated_at = $7, last_updated_by = $8
		WHERE organization_id = $1 AND transaction_id = $2 AND deleted_at IS NULL;`,
		txn.OrganizationID,
		txn.TransactionID,
		txn.Description,
		txn.Category,
		txn.Reference,
		txn.TransactionDate,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "Transaction", "failed to update bank transaction "+txn.TransactionID)
	}
	return expectRows(tag, "Transaction")
}

func (r *PgxBankTransactionRepository) SetJournalEntryID(ctx context.Context, orgID string, transactionIDs []string, entryID, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_transactions SET journal_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $1 AND transaction_id = ANY($2) AND deleted_at IS NULL;`,
		orgID, transactionIDs, entryID, now, userID)
	if err != nil {
		return translateError(err, "Transaction", "failed to link journal entry "+entryID)
	}
	if tag.RowsAffected() != int64(len(transactionIDs)) {
		return apperrors.NotFound("Transaction")
	}
	return nil
}

// MarkReconciled flags the unreconciled transactions among ids and returns how many rows changed.
func (r *PgxBankTransactionRepository) MarkReconciled(ctx context.Context, orgID string, transactionIDs []string, at time.Time, userID string) (int64, error) {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_transactions SET is_reconciled = TRUE, reconciled_date = $3, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND transaction_id = ANY($2) AND deleted_at IS NULL AND NOT is_reconciled;`,
		orgID, transactionIDs, at, userID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to mark transactions reconciled", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxBankTransactionRepository) SoftDeleteBankTransactions(ctx context.Context, orgID string, transactionIDs []string, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_transactions SET deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND transaction_id = ANY($2) AND deleted_at IS NULL;`,
		orgID, transactionIDs, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete bank transactions", err)
	}
	if tag.RowsAffected() != int64(len(transactionIDs)) {
		return apperrors.NotFound("Transaction")
	}
	return nil
}

func (r *PgxBankTransactionRepository) FindBankTransactionByID(ctx context.Context, orgID, transactionID string) (*domain.BankTransaction, error) {
	m, err := scanBankTransaction(r.db(ctx).QueryRow(ctx, `
		SELECT `+bankTxnColumns+` FROM bank_transactions
		WHERE organization_id = $1 AND transaction_id = $2 AND deleted_at IS NULL;`, orgID, transactionID))
	if err != nil {
		return nil, translateError(err, "Transaction", "failed to find bank transaction "+transactionID)
	}
	txn := mapping.ToDomainBankTransaction(m)
	return &txn, nil
}

// FindBankTransactionsByIDs skips ids that do not exist.
func (r *PgxBankTransactionRepository) FindBankTransactionsByIDs(ctx context.Context, orgID string, transactionIDs []string) (map[string]domain.BankTransaction, error) {
	if len(transactionIDs) == 0 {
		return map[string]domain.BankTransaction{}, nil
	}
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+bankTxnColumns+` FROM bank_transactions
		WHERE organization_id = $1 AND transaction_id = ANY($2) AND deleted_at IS NULL;`, orgID, transactionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bank transactions by IDs", err)
	}
	ms, err := collectBankTransactions(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.BankTransaction, len(ms))
	for _, m := range ms {
		byID[m.TransactionID] = mapping.ToDomainBankTransaction(m)
	}
	return byID, nil
}

// ListBankTransactions returns transactions newest first and a token for the next page.
func (r *PgxBankTransactionRepository) ListBankTransactions(ctx context.Context, orgID string, filter portsrepo.ListBankTransactionsFilter) ([]domain.BankTransaction, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit, 20, 200)
	args := []any{orgID, filter.BankAccountID, filter.Unreconciled, limit + 1}
	keyset := ""
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.Validation("invalid page token")
		}
		keyset = `AND (transaction_date, created_at, transaction_id) < ($5, $6, $7)`
		args = append(args, c.Date, c.CreatedAt, c.ID)
	}

	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+bankTxnColumns+` FROM bank_transactions
		WHERE organization_id = $1 AND bank_account_id = $2 AND deleted_at IS NULL
			AND (NOT $3 OR NOT is_reconciled)
			`+keyset+`
		ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC
		LIMIT $4;`, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list bank transactions", err)
	}
	ms, err := collectBankTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		next = &token
	}

	txns := make([]domain.BankTransaction, len(ms))
	for i, m := range ms {
		txns[i] = mapping.ToDomainBankTransaction(m)
	}
	return txns, next, nil
}
