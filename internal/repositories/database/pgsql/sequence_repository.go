package pgsql

import (
	"context"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) *PgxSequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextValue increments the counter in a single upsert. The row lock it takes is
// held until the surrounding transaction ends, so a rolled back document also
// gives its number back.
func (r *PgxSequenceRepository) NextValue(ctx context.Context, orgID string, kind domain.SequenceKind) (int64, error) {
	query := `
		INSERT INTO sequences (organization_id, kind, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (organization_id, kind) DO UPDATE SET last_value = sequences.last_value + 1
		RETURNING last_value;
	`
	var n int64
	if err := r.db(ctx).QueryRow(ctx, query, orgID, string(kind)).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, "failed to allocate "+string(kind)+" number", err)
	}
	return n, nil
}
