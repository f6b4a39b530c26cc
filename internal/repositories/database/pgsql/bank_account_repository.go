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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AccountNumberSealer encrypts account numbers for storage.
type AccountNumberSealer interface {
	Seal(bankAccountID, accountNumber string) ([]byte, error)
	Open(bankAccountID string, sealed []byte) (string, error)
}

type PgxBankAccountRepository struct {
	BaseRepository
	sealer AccountNumberSealer
}

func newPgxBankAccountRepository(pool *pgxpool.Pool, sealer AccountNumberSealer) *PgxBankAccountRepository {
	return &PgxBankAccountRepository{BaseRepository: BaseRepository{Pool: pool}, sealer: sealer}
}

var _ portsrepo.BankAccountRepository = (*PgxBankAccountRepository)(nil)

const bankAccountColumns = `bank_account_id, organization_id, account_number_sealed, account_name, bank_name, account_type,
	current_balance, gl_account_id, is_primary, is_active, last_reconciled_date, last_reconciled_balance,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func (r *PgxBankAccountRepository) scan(row pgx.Row) (domain.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(
		&m.BankAccountID,
		&m.OrganizationID,
		&m.AccountNumberSealed,
		&m.AccountName,
		&m.BankName,
		&m.AccountType,
		&m.CurrentBalance,
		&m.GLAccountID,
		&m.IsPrimary,
		&m.IsActive,
		&m.LastReconciledDate,
		&m.LastReconciledBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return domain.BankAccount{}, err
	}
	number, err := r.sealer.Open(m.BankAccountID, m.AccountNumberSealed)
	if err != nil {
		return domain.BankAccount{}, apperrors.NewAppError(500, "failed to open account number of bank account "+m.BankAccountID, err)
	}
	return mapping.ToDomainBankAccount(m, number), nil
}

func (r *PgxBankAccountRepository) collect(rows pgx.Rows) ([]domain.BankAccount, error) {
	defer rows.Close()
	accounts := []domain.BankAccount{}
	for rows.Next() {
		b, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank account rows: %w", err)
	}
	return accounts, nil
}

// SaveBankAccount seals the account number and inserts the row.
func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	sealed, err := r.sealer.Seal(account.BankAccountID, account.AccountNumber)
	if err != nil {
		return apperrors.NewAppError(500, "failed to seal account number", err)
	}
	m := mapping.ToModelBankAccount(account, sealed)
	_, err = r.db(ctx).Exec(ctx, `
		INSERT INTO bank_accounts (`+bankAccountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		m.BankAccountID,
		m.OrganizationID,
		m.AccountNumberSealed,
		m.AccountName,
		m.BankName,
		m.AccountType,
		m.CurrentBalance,
		m.GLAccountID,
		m.IsPrimary,
		m.IsActive,
		m.LastReconciledDate,
		m.LastReconciledBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DeletedAt,
	)
	return translateError(err, "Bank account", "failed to insert bank account "+m.BankAccountID)
}

// UpdateBankAccount writes the descriptive fields. The balance and reconciliation
// stamps have their own statements and are left alone.
func (r *PgxBankAccountRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	sealed, err := r.sealer.Seal(account.BankAccountID, account.AccountNumber)
	if err != nil {
		return apperrors.NewAppError(500, "failed to seal account number", err)
	}
	m := mapping.ToModelBankAccount(account, sealed)
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_accounts
		SET account_number_sealed = $3, account_name = $4, bank_name = $5, account_type = $6,
			gl_account_id = $7, is_primary = $8, is_active = $9, last_updated_at = $10, last_updated_by = $11
		WHERE organization_id = $1 AND bank_account_id = $2 AND deleted_at IS NULL;`,
		m.OrganizationID,
		m.BankAccountID,
		m.AccountNumberSealed,
		m.AccountName,
		m.BankName,
		m.AccountType,
		m.GLAccountID,
		m.IsPrimary,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "Bank account", "failed to update bank account "+m.BankAccountID)
	}
	return expectRows(tag, "Bank account")
}

func (r *PgxBankAccountRepository) SoftDeleteBankAccount(ctx context.Context, orgID, bankAccountID, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_accounts SET deleted_at = $3, is_active = FALSE, is_primary = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND bank_account_id = $2 AND deleted_at IS NULL;`,
		orgID, bankAccountID, now, userID)
	if err != nil {
		return translateError(err, "Bank account", "failed to delete bank account "+bankAccountID)
	}
	return expectRows(tag, "Bank account")
}

func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, orgID, bankAccountID string) (*domain.BankAccount, error) {
	b, err := r.scan(r.db(ctx).QueryRow(ctx, `
		SELECT `+bankAccountColumns+` FROM bank_accounts
		WHERE organization_id = $1 AND bank_account_id = $2 AND deleted_at IS NULL;`, orgID, bankAccountID))
	if err != nil {
		return nil, translateError(err, "Bank account", "failed to find bank account "+bankAccountID)
	}
	return &b, nil
}

// FindBankAccountsForUpdate locks the rows until the transaction ends.
func (r *PgxBankAccountRepository) FindBankAccountsForUpdate(ctx context.Context, orgID string, bankAccountIDs []string) (map[string]domain.BankAccount, error) {
	if !inTx(ctx) {
		return nil, apperrors.NewAppError(500, "bank account locks require a transaction", nil)
	}
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+bankAccountColumns+` FROM bank_accounts
		WHERE organization_id = $1 AND bank_account_id = ANY($2) AND deleted_at IS NULL
		ORDER BY bank_account_id
		FOR UPDATE;`, orgID, bankAccountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock bank accounts", err)
	}
	accounts, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.BankAccount, len(accounts))
	for _, b := range accounts {
		byID[b.BankAccountID] = b
	}
	for _, id := range bankAccountIDs {
		if _, ok := byID[id]; !ok {
			return nil, apperrors.NotFound("Bank account")
		}
	}
	return byID, nil
}

func (r *PgxBankAccountRepository) ListBankAccounts(ctx context.Context, orgID string) ([]domain.BankAccount, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+bankAccountColumns+` FROM bank_accounts
		WHERE organization_id = $1 AND deleted_at IS NULL
		ORDER BY account_name;`, orgID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list bank accounts", err)
	}
	return r.collect(rows)
}

// AdjustBankBalance adds delta to current_balance atomically.
func (r *PgxBankAccountRepository) AdjustBankBalance(ctx context.Context, orgID, bankAccountID string, delta decimal.Decimal, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_accounts SET current_balance = current_balance + $3, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $1 AND bank_account_id = $2 AND deleted_at IS NULL;`,
		orgID, bankAccountID, delta, now, userID)
	if err != nil {
		return translateError(err, "Bank account", "failed to adjust balance of bank account "+bankAccountID)
	}
	return expectRows(tag, "Bank account")
}

// ClearPrimary unsets is_primary on every account of the org except exceptID.
func (r *PgxBankAccountRepository) ClearPrimary(ctx context.Context, orgID, exceptID, userID string, now time.Time) error {
	_, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_accounts SET is_primary = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND bank_account_id <> $2 AND is_primary;`,
		orgID, exceptID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to clear primary bank account", err)
	}
	return nil
}

func (r *PgxBankAccountRepository) UpdateReconciliationInfo(ctx context.Context, orgID, bankAccountID string, date time.Time, balance decimal.Decimal, userID string, now time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE bank_accounts
		SET last_reconciled_date = $3, last_reconciled_balance = $4, last_updated_at = $5, last_updated_by = $6
		WHERE organization_id = $1 AND bank_account_id = $2 AND deleted_at IS NULL;`,
		orgID, bankAccountID, date, balance, now, userID)
	if err != nil {
		return translateError(err, "Bank account", "failed to stamp reconciliation on bank account "+bankAccountID)
	}
	return expectRows(tag, "Bank account")
}
