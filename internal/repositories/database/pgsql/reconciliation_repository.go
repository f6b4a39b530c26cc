package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books/internal/models"
	"github.com/SscSPs/smb_books/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

func newPgxReconciliationRepository(pool *pgxpool.Pool) *PgxReconciliationRepository {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepository = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `reconciliation_id, organization_id, bank_account_id, reconciliation_number, statement_date,
	statement_balance, book_balance, difference, closing_book_balance, reconciled_transaction_ids, status,
	completed_at, completed_by, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanReconciliation(row pgx.Row) (domain.BankReconciliation, error) {
	var m models.BankReconciliation
	err := row.Scan(
		&m.ReconciliationID,
		&m.OrganizationID,
		&m.BankAccountID,
		&m.ReconciliationNumber,
		&m.StatementDate,
		&m.StatementBalance,
		&m.BookBalance,
		&m.Difference,
		&m.ClosingBookBalance,
		&m.ReconciledTransactionIDs,
		&m.Status,
		&m.CompletedAt,
		&m.CompletedBy,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.BankReconciliation{}, err
	}
	return mapping.ToDomainReconciliation(m), nil
}

func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error {
	m := mapping.ToModelReconciliation(rec)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO bank_reconciliations (`+reconciliationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`,
		m.ReconciliationID,
		m.OrganizationID,
		m.BankAccountID,
		m.ReconciliationNumber,
		m.StatementDate,
		m.StatementBalance,
		m.BookBalance,
		m.Difference,
		m.ClosingBookBalance,
		m.ReconciledTransactionIDs,
		m.Status,
		m.CompletedAt,
		m.CompletedBy,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return translateError(err, "Reconciliation", "failed to insert reconciliation "+m.ReconciliationID)
}

// UpdateReconciliation writes status, completion fields, transaction ids and notes.
func (r *PgxReconciliationRepository) UpdateReconciliation(ctx context.Context, rec domain.BankReconciliation) error {
	m := mapping.ToModelReconciliation(rec)
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_reconciliations
		SET status = $3, completed_at = $4, completed_by = $5, closing_book_balance = $6,
			reconciled_transaction_ids = $7, notes = $8, last_updated_at = $9, last_updated_by = $10
		WHERE organization_id = $1 AND reconciliation_id = $2;`,
		m.OrganizationID,
		m.ReconciliationID,
		m.Status,
		m.CompletedAt,
		m.CompletedBy,
		m.ClosingBookBalance,
		m.ReconciledTransactionIDs,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "Reconciliation", "failed to update reconciliation "+m.ReconciliationID)
	}
	return expectRows(tag, "Reconciliation")
}

func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, orgID, reconciliationID string) (*domain.BankReconciliation, error) {
	rec, err := scanReconciliation(r.db(ctx).QueryRow(ctx, `
		SELECT `+reconciliationColumns+` FROM bank_reconciliations
		WHERE organization_id = $1 AND reconciliation_id = $2;`, orgID, reconciliationID))
	if err != nil {
		return nil, translateError(err, "Reconciliation", "failed to find reconciliation "+reconciliationID)
	}
	return &rec, nil
}

// FindReconciliationForUpdate locks the row until the transaction ends.
func (r *PgxReconciliationRepository) FindReconciliationForUpdate(ctx context.Context, orgID, reconciliationID string) (*domain.BankReconciliation, error) {
	if !inTx(ctx) {
		return nil, apperrors.NewAppError(500, "reconciliation locks require a transaction", nil)
	}
	rec, err := scanReconciliation(r.db(ctx).QueryRow(ctx, `
		SELECT `+reconciliationColumns+` FROM bank_reconciliations
		WHERE organization_id = $1 AND reconciliation_id = $2
		FOR UPDATE;`, orgID, reconciliationID))
	if err != nil {
		return nil, translateError(err, "Reconciliation", "failed to lock reconciliation "+reconciliationID)
	}
	return &rec, nil
}

// ListReconciliations lists the bank account's reconciliations, newest first.
func (r *PgxReconciliationRepository) ListReconciliations(ctx context.Context, orgID, bankAccountID string) ([]domain.BankReconciliation, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+reconciliationColumns+` FROM bank_reconciliations
		WHERE organization_id = $1 AND bank_account_id = $2
		ORDER BY statement_date DESC, reconciliation_number DESC;`, orgID, bankAccountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list reconciliations", err)
	}
	defer rows.Close()

	recs := []domain.BankReconciliation{}
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation rows: %w", err)
	}
	return recs, nil
}
