// Package cache provides the analysis result cache. Two backends exist:
// an in-process TTL map (the default) and redis for multi-instance
// deployments. Values are JSON round-tripped either way so the backends
// stay interchangeable.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/8shagrid/app-scout/pkg/config"
)

type Cache interface {
	// Get unmarshals the cached value for key into out. The boolean is
	// false on a miss; expired entries are misses.
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Close() error
}

// New builds the backend named by the config. Unknown backends are an
// error rather than a silent fallback.
func New(cfg config.CacheConfig, redisCfg config.RedisConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(redisCfg.Host, redisCfg.Port, redisCfg.Password, redisCfg.DB)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
