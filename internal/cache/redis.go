package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"trustcheck/internal/logger"
)

const (
	redisKeyPrefix = "trustcheck:"
	redisScanBatch = 100
)

// RedisStore keeps entries in Redis so several instances can share results.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Ping checks that the server is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	switch {
	case err == nil:
		logger.Get().Debug("cache hit", slog.String("key", key))
		return value, true
	case errors.Is(err, redis.Nil):
		logger.Get().Debug("cache miss",
			slog.String("key", key),
			slog.String("reason", "not_found"))
	default:
		logger.Get().Warn("redis get failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return nil, false
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, r.ttl).Err(); err != nil {
		logger.Get().Warn("redis set failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}
	logger.Get().Debug("cache set", slog.String("key", key))
}

func (r *RedisStore) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		logger.Get().Warn("redis delete failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// Clear removes only the keys this store owns.
func (r *RedisStore) Clear(ctx context.Context) {
	err := r.scan(ctx, func(keys []string) error {
		return r.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		logger.Get().Warn("redis clear failed", slog.String("error", err.Error()))
	}
}

func (r *RedisStore) Size(ctx context.Context) int {
	size := 0
	err := r.scan(ctx, func(keys []string) error {
		size += len(keys)
		return nil
	})
	if err != nil {
		logger.Get().Warn("redis size failed", slog.String("error", err.Error()))
	}
	return size
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", redisScanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
