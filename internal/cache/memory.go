package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"trustcheck/internal/logger"
)

type cacheEntry struct {
	value     []byte
	timestamp time.Time
	ttl       time.Duration
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	if e.ttl == 0 {
		return false
	}
	return now.Sub(e.timestamp) > e.ttl
}

type MemoryStore struct {
	entries map[string]*cacheEntry
	mutex   sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if ttl > 0 {
		go store.cleanupExpired()
	}

	return store
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	m.mutex.RLock()
	entry, exists := m.entries[key]
	m.mutex.RUnlock()

	if !exists {
		logger.Get().Debug("cache miss",
			slog.String("key", key),
			slog.String("reason", "not_found"))
		return nil, false
	}

	now := m.now()
	age := now.Sub(entry.timestamp)
	if entry.isExpired(now) {
		logger.Get().Debug("cache miss",
			slog.String("key", key),
			slog.String("reason", "expired"),
			slog.Duration("age", age))

		m.mutex.Lock()
		if current, ok := m.entries[key]; ok && current == entry {
			delete(m.entries, key)
		}
		m.mutex.Unlock()
		return nil, false
	}

	logger.Get().Debug("cache hit",
		slog.String("key", key),
		slog.Duration("age", age))

	return entry.value, true
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.entries[key] = &cacheEntry{
		value:     value,
		timestamp: m.now(),
		ttl:       m.ttl,
	}

	logger.Get().Debug("cache set",
		slog.String("key", key),
		slog.Int("total_entries", len(m.entries)))
}

func (m *MemoryStore) Delete(_ context.Context, key string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.entries, key)
}

func (m *MemoryStore) Clear(_ context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.entries = make(map[string]*cacheEntry)
}

func (m *MemoryStore) Size(_ context.Context) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.entries)
}

// Close stops the background cleanup.
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *MemoryStore) removeExpired() int {
	m.mutex.Lock()
	now := m.now()
	removed := 0
	for key, entry := range m.entries {
		if entry.isExpired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	remaining := len(m.entries)
	m.mutex.Unlock()

	if removed > 0 {
		logger.Get().Debug("cache cleanup completed",
			slog.Int("removed", removed),
			slog.Int("remaining", remaining))
	}
	return removed
}
