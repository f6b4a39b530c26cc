package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"golang.org/x/sync/singleflight"
)

// DefaultPermissionCacheTTL is used when no TTL is configured.
const DefaultPermissionCacheTTL = 5 * time.Minute

type accessService struct {
	BaseService
	repo  portsrepo.AccessRepository
	cache portsrepo.PermissionCache
	ttl   time.Duration
	loads singleflight.Group

	mu     sync.Mutex
	epochs map[string]uint64 // bumped on every invalidation of a role
}

// NewAccessService creates the access gate. cache may be nil, in which case every
// check reads the repository.
func NewAccessService(repo portsrepo.AccessRepository, cache portsrepo.PermissionCache, ttl time.Duration, base BaseService) portssvc.AccessSvc {
	if ttl <= 0 {
		ttl = DefaultPermissionCacheTTL
	}
	return &accessService{BaseService: base, repo: repo, cache: cache, ttl: ttl, epochs: make(map[string]uint64)}
}

var _ portssvc.AccessSvc = (*accessService)(nil)

func (s *accessService) CheckWriteAccess(ctx context.Context, orgID string) error {
	status, err := s.repo.FindSubscriptionStatus(ctx, orgID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Forbidden("organization has no subscription")
		}
		s.LogError(ctx, err, "Failed to read subscription status", slog.String("org_id", orgID))
		return err
	}
	if !status.AllowsWrites() {
		return apperrors.Forbidden("subscription is %s; changes are not allowed", status)
	}
	return nil
}

func (s *accessService) CheckPermission(ctx context.Context, actor domain.Actor, key string) error {
	if actor.Role == domain.RoleOwner {
		return nil
	}
	perms, err := s.permissions(ctx, actor.OrganizationID, actor.Role)
	if err != nil {
		return err
	}
	if !perms.Has(key) {
		return apperrors.Forbidden("permission %s required", key)
	}
	return nil
}

// permissions reads through the cache; concurrent misses for one role share a single load.
func (s *accessService) permissions(ctx context.Context, orgID, role string) (domain.PermissionSet, error) {
	if s.cache != nil {
		perms, found, err := s.cache.Get(ctx, orgID, role)
		if err != nil {
			s.LogWarn(ctx, "Permission cache read failed", slog.String("org_id", orgID), slog.String("error", err.Error()))
		} else if found {
			return perms, nil
		}
	}

	key := roleKey(orgID, role)
	// shared by every waiting caller; detached from the first caller's cancellation
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.loads.Do(key, func() (any, error) {
		start := s.epoch(key)
		perms, err := s.repo.FindRolePermissions(loadCtx, orgID, role)
		if err != nil {
			return nil, err
		}
		if s.cache == nil || s.epoch(key) != start {
			return perms, nil
		}
		if err := s.cache.Set(loadCtx, orgID, role, perms, s.ttl); err != nil {
			s.LogWarn(ctx, "Permission cache write failed", slog.String("org_id", orgID), slog.String("error", err.Error()))
		}
		// an invalidation may have landed between the epoch check and Set
		if s.epoch(key) != start {
			if err := s.cache.Invalidate(loadCtx, orgID, role); err != nil {
				s.LogWarn(ctx, "Permission cache invalidation failed", slog.String("org_id", orgID), slog.String("error", err.Error()))
			}
		}
		return perms, nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load role permissions", slog.String("org_id", orgID), slog.String("role", role))
		return nil, err
	}
	return v.(domain.PermissionSet), nil
}

func (s *accessService) SetRolePermissions(ctx context.Context, actor domain.Actor, role string, keys []string) error {
	if actor.Role != domain.RoleOwner {
		return apperrors.Forbidden("only the owner can change role permissions")
	}
	if role == "" || role == domain.RoleOwner {
		return apperrors.Validation("role %q cannot be edited", role)
	}
	if err := s.CheckWriteAccess(ctx, actor.OrganizationID); err != nil {
		return err
	}

	before, err := s.repo.FindRolePermissions(ctx, actor.OrganizationID, role)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceRolePermissions(ctx, actor.OrganizationID, role, keys); err != nil {
		s.LogError(ctx, err, "Failed to replace role permissions", slog.String("role", role))
		return fmt.Errorf("failed to update permissions for role %s: %w", role, err)
	}
	if err := s.InvalidateRole(ctx, actor.OrganizationID, role); err != nil {
		// the entry still expires after the TTL
		s.LogWarn(ctx, "Permission cache invalidation failed", slog.String("role", role), slog.String("error", err.Error()))
	}

	s.RecordAudit(ctx, actor, "update", "role_permissions", role, before.Keys(), keys)
	s.LogInfo(ctx, "Role permissions updated", slog.String("role", role), slog.Int("count", len(keys)))
	return nil
}

func (s *accessService) InvalidateRole(ctx context.Context, orgID, role string) error {
	key := roleKey(orgID, role)
	s.mu.Lock()
	s.epochs[key]++
	s.mu.Unlock()
	s.loads.Forget(key)

	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, orgID, role)
}

func (s *accessService) epoch(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochs[key]
}

func roleKey(orgID, role string) string {
	return orgID + "|" + role
}
