package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Permission cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	JWTIssuer      string

	RedisAddr              string
	PermissionCacheBackend string
	PermissionCacheTTL     time.Duration
	PermissionCacheSize    int

	// AccountNumberKey encrypts bank account numbers at rest (32 bytes).
	AccountNumberKey []byte

	RateLimit          string
	CORSAllowedOrigins []string

	WorkerConcurrency int
	IntegrityCron     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "smb-books")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("PERMISSION_CACHE_BACKEND", CacheBackendMemory)
	viper.SetDefault("PERMISSION_CACHE_TTL", "5m")
	viper.SetDefault("PERMISSION_CACHE_SIZE", 1024)
	viper.SetDefault("ACCOUNT_NUMBER_KEY", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("WORKER_CONCURRENCY", 2)
	viper.SetDefault("INTEGRITY_CRON", "@every 1h")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            viper.GetString("PGSQL_URL"),
		MigrationsPath:         viper.GetString("MIGRATIONS_PATH"),
		Port:                   viper.GetString("PORT"),
		IsProduction:           viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:              viper.GetString("JWT_SECRET"),
		JWTIssuer:              viper.GetString("JWT_ISSUER"),
		RedisAddr:              viper.GetString("REDIS_ADDR"),
		PermissionCacheBackend: strings.ToLower(viper.GetString("PERMISSION_CACHE_BACKEND")),
		PermissionCacheSize:    viper.GetInt("PERMISSION_CACHE_SIZE"),
		RateLimit:              viper.GetString("RATE_LIMIT"),
		WorkerConcurrency:      viper.GetInt("WORKER_CONCURRENCY"),
		IntegrityCron:          viper.GetString("INTEGRITY_CRON"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	ttlStr := viper.GetString("PERMISSION_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		ttl = 5 * time.Minute
		log.Printf("Warning: Invalid value for PERMISSION_CACHE_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl)
	}
	cfg.PermissionCacheTTL = ttl

	switch cfg.PermissionCacheBackend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return nil, fmt.Errorf("PERMISSION_CACHE_BACKEND must be %q or %q, got %q", CacheBackendRedis, CacheBackendMemory, cfg.PermissionCacheBackend)
	}
	if cfg.PermissionCacheSize <= 0 {
		cfg.PermissionCacheSize = 1024
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 1
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	key, err := parseKey(viper.GetString("ACCOUNT_NUMBER_KEY"))
	if err != nil {
		return nil, err
	}
	if key == nil {
		if cfg.IsProduction {
			return nil, fmt.Errorf("ACCOUNT_NUMBER_KEY is required in production")
		}
		log.Println("Warning: ACCOUNT_NUMBER_KEY not set. Using an insecure development key.")
		key = []byte("insecure-development-key-32bytes")
	}
	cfg.AccountNumberKey = key

	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func parseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("ACCOUNT_NUMBER_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ACCOUNT_NUMBER_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
