package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// FindDriftedAccounts returns accounts whose stored current balance differs from debit - credit.
func (r *reportingRepository) FindDriftedAccounts(ctx context.Context, orgID string) ([]domain.AccountDrift, error) {
	query := `
		SELECT account_id, code, debit_balance, credit_balance, current_balance
		FROM accounts
		WHERE organization_id = $1 AND deleted_at IS NULL
			AND current_balance <> debit_balance - credit_balance
		ORDER BY code
	`

	rows, err := r.db(ctx).Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("error querying drifted accounts: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountDrift{}
	for rows.Next() {
		var row domain.AccountDrift
		if err := rows.Scan(
			&row.AccountID,
			&row.Code,
			&row.DebitBalance,
			&row.CreditBalance,
			&row.CurrentBalance,
		); err != nil {
			return nil, fmt.Errorf("error scanning drifted account row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drifted account rows: %w", err)
	}

	return result, nil
}

// FindUnbalancedEntries sums the lines of every posted entry and returns those that do not balance.
func (r *reportingRepository) FindUnbalancedEntries(ctx context.Context, orgID string) ([]domain.UnbalancedEntry, error) {
	query := `
		SELECT
			e.entry_id,
			e.entry_number,
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_entries e
		LEFT JOIN journal_lines l ON l.entry_id = e.entry_id
		WHERE e.organization_id = $1
			AND e.status = 'posted'
		GROUP BY e.entry_id, e.entry_number
		HAVING COALESCE(SUM(l.debit), 0) <> COALESCE(SUM(l.credit), 0)
		ORDER BY e.entry_number
	`

	rows, err := r.db(ctx).Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("error querying unbalanced entries: %w", err)
	}
	defer rows.Close()

	result := []domain.UnbalancedEntry{}
	for rows.Next() {
		var row domain.UnbalancedEntry
		if err := rows.Scan(
			&row.EntryID,
			&row.EntryNumber,
			&row.TotalDebit,
			&row.TotalCredit,
		); err != nil {
			return nil, fmt.Errorf("error scanning unbalanced entry row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unbalanced entry rows: %w", err)
	}

	return result, nil
}
