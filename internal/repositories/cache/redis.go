package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "books:perms"

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	return client, nil
}

// RedisPermissionCache stores role permission sets as JSON arrays so every API
// instance sees the same grants and the same invalidations.
type RedisPermissionCache struct {
	client *redis.Client
}

// NewRedisPermissionCache wraps an open client.
func NewRedisPermissionCache(client *redis.Client) *RedisPermissionCache {
	return &RedisPermissionCache{client: client}
}

var _ portsrepo.PermissionCache = (*RedisPermissionCache)(nil)

func permissionKey(orgID, role string) string {
	return keyPrefix + ":" + orgID + ":" + role
}

func (c *RedisPermissionCache) Get(ctx context.Context, orgID, role string) (domain.PermissionSet, bool, error) {
	payload, err := c.client.Get(ctx, permissionKey(orgID, role)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get permissions: %w", err)
	}
	var keys []string
	if err := json.Unmarshal(payload, &keys); err != nil {
		return nil, false, fmt.Errorf("cache: decode permissions: %w", err)
	}
	return domain.NewPermissionSet(keys...), true, nil
}

func (c *RedisPermissionCache) Set(ctx context.Context, orgID, role string, perms domain.PermissionSet, ttl time.Duration) error {
	raw, err := json.Marshal(perms.Keys())
	if err != nil {
		return fmt.Errorf("cache: encode permissions: %w", err)
	}
	if err := c.client.Set(ctx, permissionKey(orgID, role), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set permissions: %w", err)
	}
	return nil
}

func (c *RedisPermissionCache) Invalidate(ctx context.Context, orgID, role string) error {
	if err := c.client.Del(ctx, permissionKey(orgID, role)).Err(); err != nil {
		return fmt.Errorf("cache: invalidate permissions: %w", err)
	}
	return nil
}
