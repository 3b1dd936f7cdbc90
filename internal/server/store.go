package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"trustcheck/internal/cache"
	"trustcheck/internal/config"
	"trustcheck/internal/logger"
)

// NewStore builds the result cache selected by cfg. A redis store is pinged
// once so a wrong address fails at startup instead of on every request.
func NewStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	log := logger.Get()

	switch cfg.Mode {
	case config.CacheModeMem:
		log.Info("cache initialized",
			slog.String("mode", "memory"),
			slog.Duration("ttl", cfg.TTL))
		return cache.NewMemoryStore(cfg.TTL), nil
	case config.CacheModeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := cache.NewRedisStore(client, cfg.TTL)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("cannot reach redis at %s: %w", cfg.Redis.Address, err)
		}
		log.Info("cache initialized",
			slog.String("mode", "redis"),
			slog.String("address", cfg.Redis.Address),
			slog.Duration("ttl", cfg.TTL))
		return store, nil
	case config.CacheModeNone:
		log.Info("cache initialized",
			slog.String("mode", "none"))
		return cache.NewNoOpStore(), nil
	default:
		log.Warn("unknown cache mode, using no-op",
			slog.String("mode", string(cfg.Mode)))
		return cache.NewNoOpStore(), nil
	}
}
