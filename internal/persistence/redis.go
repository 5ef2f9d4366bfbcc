package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
)

// RedisKV stores desk documents as plain redis string values.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to Redis using the provided configuration.
func NewRedisKV(cfg config.RedisConfig, logger *zap.Logger) *RedisKV {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisKV{client: client}
}

// Get fetches the document under key; a missing key is not an error.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set overwrites the document under key with no expiry.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Ping verifies Redis connectivity.
func (r *RedisKV) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis client not configured")
	}
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *RedisKV) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}
