package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccessRepository struct {
	BaseRepository
}

func newPgxAccessRepository(pool *pgxpool.Pool) *PgxAccessRepository {
	return &PgxAccessRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccessRepository = (*PgxAccessRepository)(nil)

// FindSubscriptionStatus returns apperrors.ErrNotFound for unknown organizations.
func (r *PgxAccessRepository) FindSubscriptionStatus(ctx context.Context, orgID string) (domain.SubscriptionStatus, error) {
	var status string
	err := r.db(ctx).QueryRow(ctx, `SELECT subscription_status FROM organizations WHERE organization_id = $1;`, orgID).Scan(&status)
	if err != nil {
		return "", translateError(err, "Organization", "failed to read subscription of "+orgID)
	}
	return domain.SubscriptionStatus(status), nil
}

// FindRolePermissions returns an empty set for roles without grants.
func (r *PgxAccessRepository) FindRolePermissions(ctx context.Context, orgID, role string) (domain.PermissionSet, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT permission_key FROM role_permissions
		WHERE organization_id = $1 AND role = $2;`, orgID, role)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query role permissions", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan role permissions: %w", err)
	}
	return domain.NewPermissionSet(keys...), nil
}

// ReplaceRolePermissions overwrites the role's grants in one transaction.
func (r *PgxAccessRepository) ReplaceRolePermissions(ctx context.Context, orgID, role string, keys []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE organization_id = $1 AND role = $2;`, orgID, role); err != nil {
		return apperrors.NewAppError(500, "failed to clear role permissions", err)
	}
	if len(keys) > 0 {
		_, err := tx.Exec(ctx, `
			INSERT INTO role_permissions (organization_id, role, permission_key)
			SELECT $1, $2, k FROM unnest($3::text[]) AS k
			ON CONFLICT DO NOTHING;`, orgID, role, keys)
		if err != nil {
			return translateError(err, "Role permission", "failed to insert role permissions")
		}
	}
	return r.Commit(ctx, tx)
}

// ListOrganizationIDs lists organizations with a subscription that allows writes.
func (r *PgxAccessRepository) ListOrganizationIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT organization_id FROM organizations
		WHERE subscription_status IN ($1, $2)
		ORDER BY organization_id;`, string(domain.SubscriptionActive), string(domain.SubscriptionTrialing))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list organizations", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan organization ids: %w", err)
	}
	return ids, nil
}
