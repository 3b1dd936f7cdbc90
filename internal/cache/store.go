package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"trustcheck/internal/logger"
)

// Store keeps serialized inspection results. Implementations never fail the
// caller: a broken backend behaves like an empty cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
	Size(ctx context.Context) int
}

// DNSSECKey identifies a DNSSEC result. The nameserver is part of the key
// since different resolvers may see different answers.
func DNSSECKey(domain, nameserver string) string {
	return fmt.Sprintf("dnssec:%s|%s", domain, nameserver)
}

// SSLKey identifies a TLS inspection result.
func SSLKey(domain string, port uint16) string {
	return fmt.Sprintf("ssl:%s:%d", domain, port)
}

// Load decodes a cached value into a new T.
func Load[T any](ctx context.Context, store Store, key string) (*T, bool) {
	raw, ok := store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Get().Warn("dropping undecodable cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		store.Delete(ctx, key)
		return nil, false
	}
	return &v, true
}

// Save encodes v and stores it under key.
func Save(ctx context.Context, store Store, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Get().Warn("cannot encode cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}
	store.Set(ctx, key, raw)
}
