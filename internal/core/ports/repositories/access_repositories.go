package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
)

// AccessRepository reads the organization's subscription and role grants.
type AccessRepository interface {
	// FindSubscriptionStatus returns apperrors.ErrNotFound for unknown organizations.
	FindSubscriptionStatus(ctx context.Context, orgID string) (domain.SubscriptionStatus, error)

	// FindRolePermissions returns an empty set for roles without grants.
	FindRolePermissions(ctx context.Context, orgID, role string) (domain.PermissionSet, error)

	// ReplaceRolePermissions overwrites the role's grants.
	ReplaceRolePermissions(ctx context.Context, orgID, role string, keys []string) error

	// ListOrganizationIDs lists organizations with a subscription that allows writes.
	ListOrganizationIDs(ctx context.Context) ([]string, error)
}

// PermissionCache holds role permission sets for a bounded time.
// Get reports found=false on a miss.
type PermissionCache interface {
	Get(ctx context.Context, orgID, role string) (perms domain.PermissionSet, found bool, err error)
	Set(ctx context.Context, orgID, role string, perms domain.PermissionSet, ttl time.Duration) error
	Invalidate(ctx context.Context, orgID, role string) error
}

// AuditRepository is the write-only audit sink.
type AuditRepository interface {
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error
}
