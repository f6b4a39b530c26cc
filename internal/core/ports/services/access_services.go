package services

import (
	"context"

	"github.com/SscSPs/smb_books/internal/core/domain"
)

// AccessSvc gates mutations on subscription state and role permissions.
type AccessSvc interface {
	// CheckWriteAccess fails with apperrors.ErrForbidden unless the subscription is active or trialing.
	CheckWriteAccess(ctx context.Context, orgID string) error

	// CheckPermission fails with apperrors.ErrForbidden unless the actor's role grants key.
	CheckPermission(ctx context.Context, actor domain.Actor, key string) error

	// SetRolePermissions replaces a role's grants and invalidates the cached set.
	SetRolePermissions(ctx context.Context, actor domain.Actor, role string, keys []string) error

	// InvalidateRole drops the cached permission set of a role.
	InvalidateRole(ctx context.Context, orgID, role string) error
}
