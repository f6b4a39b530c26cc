package cache

import (
	"context"
	"maps"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryPermissionCache is a bounded per-process cache. Entries expire after the
// TTL given at construction; the ttl passed to Set is ignored.
type MemoryPermissionCache struct {
	lru *expirable.LRU[string, domain.PermissionSet]
}

// NewMemoryPermissionCache holds at most size role sets for ttl each.
func NewMemoryPermissionCache(size int, ttl time.Duration) *MemoryPermissionCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryPermissionCache{lru: expirable.NewLRU[string, domain.PermissionSet](size, nil, ttl)}
}

var _ portsrepo.PermissionCache = (*MemoryPermissionCache)(nil)

func (c *MemoryPermissionCache) Get(_ context.Context, orgID, role string) (domain.PermissionSet, bool, error) {
	perms, ok := c.lru.Get(permissionKey(orgID, role))
	if !ok {
		return nil, false, nil
	}
	return maps.Clone(perms), true, nil
}

func (c *MemoryPermissionCache) Set(_ context.Context, orgID, role string, perms domain.PermissionSet, _ time.Duration) error {
	c.lru.Add(permissionKey(orgID, role), maps.Clone(perms))
	return nil
}

func (c *MemoryPermissionCache) Invalidate(_ context.Context, orgID, role string) error {
	c.lru.Remove(permissionKey(orgID, role))
	return nil
}
