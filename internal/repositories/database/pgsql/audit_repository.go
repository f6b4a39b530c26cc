package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// SaveAuditRecord appends a record; before and after states are stored as JSON.
func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	before, err := marshalState(record.Before)
	if err != nil {
		return err
	}
	after, err := marshalState(record.After)
	if err != nil {
		return err
	}

	_, err = r.db(ctx).Exec(ctx, `
		INSERT INTO audit_log (organization_id, user_id, action, resource, resource_id, before_state, after_state, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		record.OrganizationID,
		record.UserID,
		record.Action,
		record.Resource,
		record.ResourceID,
		before,
		after,
		record.OccurredAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit record", err)
	}
	return nil
}

func marshalState(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit state: %w", err)
	}
	return b, nil
}
