package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books/internal/models"
	"github.com/SscSPs/smb_books/internal/utils/mapping"
	"github.com/SscSPs/smb_books/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `entry_id, organization_id, entry_number, entry_date, entry_type, description,
	reference_type, reference_id, total_debit, total_credit, status, posted_date, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanJournalHeader(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.OrganizationID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.EntryType,
		&m.Description,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.PostedDate,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveJournalEntry inserts the entry header and its lines. Balances are not touched.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	header := mapping.ToModelJournalEntry(entry)
	lines := mapping.ToModelJournalLines(entry)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		header.EntryID,
		header.OrganizationID,
		header.EntryNumber,
		header.EntryDate,
		header.EntryType,
		header.Description,
		header.ReferenceType,
		header.ReferenceID,
		header.TotalDebit,
		header.TotalCredit,
		header.Status,
		header.PostedDate,
		header.PostedBy,
		header.CreatedAt,
		header.CreatedBy,
		header.LastUpdatedAt,
		header.LastUpdatedBy,
	)
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO journal_lines (entry_id, line_number, account_id, description, debit, credit)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			l.EntryID, l.LineNumber, l.AccountID, l.Description, l.Debit, l.Credit,
		)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = translateError(err, "Journal entry", fmt.Sprintf("failed to insert journal entry %s (statement %d)", entry.EntryID, i))
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = apperrors.NewAppError(500, "failed to close journal insert batch", err)
	}
	return batchErr
}

// FindJournalEntryByID retrieves an entry and its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, orgID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE organization_id = $1 AND entry_id = $2;`
	header, err := scanJournalHeader(r.db(ctx).QueryRow(ctx, query, orgID, entryID))
	if err != nil {
		return nil, translateError(err, "Journal entry", "failed to find journal entry "+entryID)
	}
	entries, err := r.attachLines(ctx, []models.JournalEntry{header})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// FindReversalOf returns the entry reversing entryID, or apperrors.ErrNotFound.
func (r *PgxJournalRepository) FindReversalOf(ctx context.Context, orgID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + ` FROM journal_entries
		WHERE organization_id = $1 AND reference_type = $2 AND reference_id = $3;
	`
	header, err := scanJournalHeader(r.db(ctx).QueryRow(ctx, query, orgID, domain.RefJournalReversal, entryID))
	if err != nil {
		return nil, translateError(err, "Reversal", "failed to find reversal of "+entryID)
	}
	entries, err := r.attachLines(ctx, []models.JournalEntry{header})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// ListJournalEntries returns entries newest first with their lines and a token for the next page.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, orgID string, filter portsrepo.ListJournalEntriesFilter) ([]domain.JournalEntry, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit, 20, 200)
	args := []any{orgID, filter.ReferenceType, filter.ReferenceID, limit + 1}
	keyset := ""
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.Validation("invalid page token")
		}
		keyset = `AND (entry_date, created_at, entry_id) < ($5, $6, $7)`
		args = append(args, c.Date, c.CreatedAt, c.ID)
	}

	query := `
		SELECT ` + journalColumns + ` FROM journal_entries
		WHERE organization_id = $1
			AND ($2 = '' OR reference_type = $2)
			AND ($3 = '' OR reference_id = $3)
			` + keyset + `
		ORDER BY entry_date DESC, created_at DESC, entry_id DESC
		LIMIT $4;
	`
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journal entries", err)
	}
	defer rows.Close()

	headers := []models.JournalEntry{}
	for rows.Next() {
		h, err := scanJournalHeader(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var next *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[limit-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
		next = &token
	}

	entries, err := r.attachLines(ctx, headers)
	if err != nil {
		return nil, nil, err
	}
	return entries, next, nil
}

// attachLines loads the lines of every header in one query.
func (r *PgxJournalRepository) attachLines(ctx context.Context, headers []models.JournalEntry) ([]domain.JournalEntry, error) {
	if len(headers) == 0 {
		return []domain.JournalEntry{}, nil
	}
	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}

	rows, err := r.db(ctx).Query(ctx, `
		SELECT entry_id, line_number, account_id, description, debit, credit
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_number;`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]models.JournalLine, len(headers))
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.EntryID, &l.LineNumber, &l.AccountID, &l.Description, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		linesByEntry[l.EntryID] = append(linesByEntry[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, linesByEntry[h.EntryID])
	}
	return entries, nil
}
