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

type PgxBankTransferRepository struct {
	BaseRepository
}

func newPgxBankTransferRepository(pool *pgxpool.Pool) *PgxBankTransferRepository {
	return &PgxBankTransferRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankTransferRepository = (*PgxBankTransferRepository)(nil)

const transferColumns = `transfer_id, organization_id, transfer_number, from_bank_account_id, to_bank_account_id,
	amount, transfer_date, description, from_transaction_id, to_transaction_id, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanTransfer(row pgx.Row) (models.BankTransfer, error) {
	var m models.BankTransfer
	err := row.Scan(
		&m.TransferID,
		&m.OrganizationID,
		&m.TransferNumber,
		&m.FromBankAccountID,
		&m.ToBankAccountID,
		&m.Amount,
		&m.TransferDate,
		&m.Description,
		&m.FromTransactionID,
		&m.ToTransactionID,
		&m.JournalEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxBankTransferRepository) SaveBankTransfer(ctx context.Context, transfer domain.BankTransfer) error {
	m := mapping.ToModelBankTransfer(transfer)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO bank_transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`,
		m.TransferID,
		m.OrganizationID,
		m.TransferNumber,
		m.FromBankAccountID,
		m.ToBankAccountID,
		m.Amount,
		m.TransferDate,
		m.Description,
		m.FromTransactionID,
		m.ToTransactionID,
		m.JournalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DeletedAt,
	)
	return translateError(err, "Transfer", "failed to insert bank transfer "+m.TransferID)
}

func (r *PgxBankTransferRepository) SetTransferJournalEntryID(ctx context.Context, orgID, transferID, entryID, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_transfers SET journal_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $1 AND transfer_id = $2 AND deleted_at IS NULL;`,
		orgID, transferID, entryID, now, userID)
	if err != nil {
		return translateError(err, "Transfer", "failed to link journal entry to transfer "+transferID)
	}
	return expectRows(tag, "Transfer")
}

func (r *PgxBankTransferRepository) SoftDeleteBankTransfer(ctx context.Context, orgID, transferID, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_transfers SET deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND transfer_id = $2 AND deleted_at IS NULL;`,
		orgID, transferID, now, userID)
	if err != nil {
		return translateError(err, "Transfer", "failed to delete transfer "+transferID)
	}
	return expectRows(tag, "Transfer")
}

func (r *PgxBankTransferRepository) FindBankTransferByID(ctx context.Context, orgID, transferID string) (*domain.BankTransfer, error) {
	m, err := scanTransfer(r.db(ctx).QueryRow(ctx, `
		SELECT `+transferColumns+` FROM bank_transfers
		WHERE organization_id = $1 AND transfer_id = $2 AND deleted_at IS NULL;`, orgID, transferID))
	if err != nil {
		return nil, translateError(err, "Transfer", "failed to find transfer "+transferID)
	}
	t := mapping.ToDomainBankTransfer(m)
	return &t, nil
}

// ListBankTransfers returns transfers newest first and a token for the next page.
func (r *PgxBankTransferRepository) ListBankTransfers(ctx context.Context, orgID string, limit int, nextToken *string) ([]domain.BankTransfer, *string, error) {
	limit = pagination.NormalizeLimit(limit, 20, 200)
	args := []any{orgID, limit + 1}
	keyset := ""
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.Validation("invalid page token")
		}
		keyset = `AND (transfer_date, created_at, transfer_id) < ($3, $4, $5)`
		args = append(args, c.Date, c.CreatedAt, c.ID)
	}

	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+transferColumns+` FROM bank_transfers
		WHERE organization_id = $1 AND deleted_at IS NULL
			`+keyset+`
		ORDER BY transfer_date DESC, created_at DESC, transfer_id DESC
		LIMIT $2;`, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list transfers", err)
	}
	defer rows.Close()

	ms := []models.BankTransfer{}
	for rows.Next() {
		m, err := scanTransfer(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.TransferDate, CreatedAt: last.CreatedAt, ID: last.TransferID})
		next = &token
	}

	transfers := make([]domain.BankTransfer, len(ms))
	for i, m := range ms {
		transfers[i] = mapping.ToDomainBankTransfer(m)
	}
	return transfers, next, nil
}
