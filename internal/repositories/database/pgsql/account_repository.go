package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books/internal/models"
	"github.com/SscSPs/smb_books/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, organization_id, code, name, account_type, sub_type, parent_account_id, is_parent,
	description, debit_balance, credit_balance, current_balance, is_active, is_system_account,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.OrganizationID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.SubType,
		&m.ParentAccountID,
		&m.IsParent,
		&m.Description,
		&m.DebitBalance,
		&m.CreditBalance,
		&m.CurrentBalance,
		&m.IsActive,
		&m.IsSystemAccount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.OrganizationID,
		m.Code,
		m.Name,
		m.AccountType,
		m.SubType,
		m.ParentAccountID,
		m.IsParent,
		m.Description,
		m.DebitBalance,
		m.CreditBalance,
		m.CurrentBalance,
		m.IsActive,
		m.IsSystemAccount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DeletedAt,
	)
	return translateError(err, "Account", "failed to insert account "+m.AccountID)
}

// UpdateAccount updates an account's descriptive fields and active flag.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $3, description = $4, sub_type = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		account.OrganizationID,
		account.AccountID,
		account.Name,
		account.Description,
		account.SubType,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "Account", "failed to update account "+account.AccountID)
	}
	return expectRows(tag, "Account")
}

// MarkAccountAsParent flags an account as having children.
func (r *PgxAccountRepository) MarkAccountAsParent(ctx context.Context, orgID, accountID, userID string, now time.Time) error {
	query := `
		UPDATE accounts SET is_parent = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.db(ctx).Exec(ctx, query, orgID, accountID, now, userID)
	if err != nil {
		return translateError(err, "Account", "failed to mark parent account "+accountID)
	}
	return expectRows(tag, "Parent account")
}

// SoftDeleteAccount sets deleted_at.
func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, orgID, accountID, userID string, now time.Time) error {
	query := `
		UPDATE accounts SET deleted_at = $3, is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.db(ctx).Exec(ctx, query, orgID, accountID, now, userID)
	if err != nil {
		return translateError(err, "Account", "failed to delete account "+accountID)
	}
	return expectRows(tag, "Account")
}

// FindAccountByID retrieves a specific account of the organization.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL;`
	a, err := scanAccount(r.db(ctx).QueryRow(ctx, query, orgID, accountID))
	if err != nil {
		return nil, translateError(err, "Account", "failed to find account "+accountID)
	}
	return &a, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are skipped.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL;`
	rows, err := r.db(ctx).Query(ctx, query, orgID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
	}
	return byID, nil
}

// ListAccounts lists the chart of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, orgID string, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND deleted_at IS NULL
			AND ($2 = '' OR account_type = $2)
			AND ($3 OR is_active)
		ORDER BY code;
	`
	rows, err := r.db(ctx).Query(ctx, query, orgID, string(filter.AccountType), filter.IncludeInactive)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	return collectAccounts(rows)
}

// CountAccounts counts accounts including soft-deleted ones.
func (r *PgxAccountRepository) CountAccounts(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db(ctx).QueryRow(ctx, `SELECT count(*) FROM accounts WHERE organization_id = $1;`, orgID).Scan(&n)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count accounts", err)
	}
	return n, nil
}

// HasJournalLines reports whether any journal line references the account.
func (r *PgxAccountRepository) HasJournalLines(ctx context.Context, orgID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.organization_id = $1 AND l.account_id = $2
		);
	`
	var exists bool
	if err := r.db(ctx).QueryRow(ctx, query, orgID, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check journal lines for account "+accountID, err)
	}
	return exists, nil
}

// HasLinkedBankAccounts reports whether a non-deleted bank account posts to the account.
func (r *PgxAccountRepository) HasLinkedBankAccounts(ctx context.Context, orgID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bank_accounts
			WHERE organization_id = $1 AND gl_account_id = $2 AND deleted_at IS NULL
		);
	`
	var exists bool
	if err := r.db(ctx).QueryRow(ctx, query, orgID, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check bank links for account "+accountID, err)
	}
	return exists, nil
}

// findFirstActive returns the lowest-code active postable (non-parent) account matching the extra predicate.
func (r *PgxAccountRepository) findFirstActive(ctx context.Context, predicate string, args ...any) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND account_id <> $2 AND is_active AND NOT is_parent AND deleted_at IS NULL AND ` + predicate + `
		ORDER BY code
		LIMIT 1;
	`
	a, err := scanAccount(r.db(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, "Account", "failed to look up contra account")
	}
	return &a, nil
}

// FindAccountByName matches the whole name case-insensitively.
func (r *PgxAccountRepository) FindAccountByName(ctx context.Context, orgID, name, excludeID string) (*domain.Account, error) {
	return r.findFirstActive(ctx, `lower(name) = lower($3)`, orgID, excludeID, name)
}

// FindAccountByNameContaining returns the lowest-code account whose name contains fragment.
func (r *PgxAccountRepository) FindAccountByNameContaining(ctx context.Context, orgID, fragment, excludeID string) (*domain.Account, error) {
	return r.findFirstActive(ctx, `strpos(lower(name), lower($3)) > 0`, orgID, excludeID, fragment)
}

// FindAccountByTypeAndSubType returns the lowest-code account of the pair.
func (r *PgxAccountRepository) FindAccountByTypeAndSubType(ctx context.Context, orgID string, accountType domain.AccountType, subType, excludeID string) (*domain.Account, error) {
	return r.findFirstActive(ctx, `account_type = $3 AND sub_type = $4`, orgID, excludeID, string(accountType), subType)
}

// FindFirstAccountByType returns the lowest-code account of the type.
func (r *PgxAccountRepository) FindFirstAccountByType(ctx context.Context, orgID string, accountType domain.AccountType, excludeID string) (*domain.Account, error) {
	return r.findFirstActive(ctx, `account_type = $3`, orgID, excludeID, string(accountType))
}

// FindAccountsByIDsForUpdate retrieves accounts and locks them for update.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error) {
	if !inTx(ctx) {
		return nil, apperrors.NewAppError(500, "account locks require a transaction", nil)
	}
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	// a stable lock order keeps concurrent postings from deadlocking
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := r.db(ctx).Query(ctx, query, orgID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs for update", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		accountsMap[a.AccountID] = a
	}

	// Check if all requested accounts were found and locked
	var missing []string
	for _, id := range accountIDs {
		if _, found := accountsMap[id]; !found {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// ApplyBalanceDeltas increments debit and credit balances and recomputes current balances.
func (r *PgxAccountRepository) ApplyBalanceDeltas(ctx context.Context, orgID string, deltas map[string]domain.BalanceDelta, userID string, now time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET debit_balance = debit_balance + $3,
			credit_balance = credit_balance + $4,
			current_balance = (debit_balance + $3) - (credit_balance + $4),
			last_updated_at = $5, last_updated_by = $6
		WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(deltas))
	for accountID, d := range deltas {
		if d.Debit.IsZero() && d.Credit.IsZero() {
			continue
		}
		batch.Queue(query, orgID, accountID, d.Debit, d.Credit, now, userID)
		accountIDs = append(accountIDs, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = apperrors.NewAppError(500, "failed to update balance for account "+accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = apperrors.NewAppError(500, "failed to close balance update batch", err)
	}
	return batchErr
}
