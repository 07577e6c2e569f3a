package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/8shagrid/app-scout/pkg/logger"
)

// Redis backs the cache with a shared redis instance so several API
// replicas can reuse each other's analyses.
type Redis struct {
	client *redis.Client
}

func NewRedis(host string, port int, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf("analysis:%s", key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cached analysis: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	logger.Debug("Analysis cache hit", zap.String("key", key))
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := r.client.Set(ctx, fmt.Sprintf("analysis:%s", key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set analysis cache: %w", err)
	}
	logger.Debug("Analysis cached", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
