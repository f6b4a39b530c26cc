// Package bootstrap wires configuration, storage and services into a running
// application shared by the API server, the worker and the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/core/services"
	"github.com/SscSPs/smb_books/internal/platform/config"
	"github.com/SscSPs/smb_books/internal/repositories/cache"
	"github.com/SscSPs/smb_books/internal/repositories/database/pgsql"
	"github.com/SscSPs/smb_books/internal/utils"
	"github.com/SscSPs/smb_books/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Repos    portsrepo.RepositoryProvider
	Services *portssvc.ServiceContainer

	redis *redis.Client
}

// NewLogger returns the JSON logger every binary writes with and makes it the default.
func NewLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}

// New opens the database pool, picks the permission cache backend and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, fmt.Errorf("initialize database pool: %w", err)
	}

	sealer, err := utils.NewAccountNumberSealer(cfg.AccountNumberKey)
	if err != nil {
		database.ClosePgxPool(pool)
		return nil, fmt.Errorf("initialize account number sealer: %w", err)
	}

	app := &App{Config: cfg, Logger: logger, Pool: pool}

	var permCache portsrepo.PermissionCache
	switch cfg.PermissionCacheBackend {
	case config.CacheBackendRedis:
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			database.ClosePgxPool(pool)
			return nil, err
		}
		app.redis = client
		permCache = cache.NewRedisPermissionCache(client)
	default:
		permCache = cache.NewMemoryPermissionCache(cfg.PermissionCacheSize, cfg.PermissionCacheTTL)
	}
	logger.Info("Permission cache ready", slog.String("backend", cfg.PermissionCacheBackend), slog.Duration("ttl", cfg.PermissionCacheTTL))

	app.Repos = pgsql.NewRepositoryProvider(pool, sealer)
	app.Services = services.NewServiceContainer(cfg, app.Repos, permCache)
	return app, nil
}

// Close releases the pool and the redis client.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("Error closing redis client", slog.String("error", err.Error()))
		}
	}
	database.ClosePgxPool(a.Pool)
}
