// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mvargas/campana-go/internal/notify"
)

// Manager wraps a cache backend and keeps it consistent with the
// database by subscribing to change events. Keys are namespaced by
// content table ("eventos:lista", "noticias:slug:foo") so a change to
// one table only evicts its own entries plus rendered pages.
type Manager struct {
	backend Cache
	ttl     time.Duration
}

// ManagerOptions configures the cache manager and its backend.
type ManagerOptions struct {
	// RedisURL selects the Redis backend when set; empty means in-memory.
	RedisURL string

	// Prefix is prepended to Redis keys.
	Prefix string

	// TTL is the default lifetime of cached entries.
	TTL time.Duration

	// MaxSize caps the in-memory backend's entry count.
	MaxSize int
}

// NewManager builds a Manager with the backend selected by opts.
func NewManager(opts ManagerOptions) (*Manager, error) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	var backend Cache
	if opts.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(opts.RedisURL, opts.Prefix, ttl)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		backend = rc
	} else {
		backend = NewMemoryCache(MemoryCacheOptions{
			DefaultTTL: ttl,
			MaxSize:    opts.MaxSize,
		})
	}

	return &Manager{backend: backend, ttl: ttl}, nil
}

// NewManagerWithBackend builds a Manager around an existing backend.
func NewManagerWithBackend(backend Cache, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Manager{backend: backend, ttl: ttl}
}

// TableKey builds a cache key scoped to a content table.
func TableKey(table string, parts ...string) string {
	key := table
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// PageKey builds a cache key for a rendered page.
func PageKey(path string) string {
	return "page:" + path
}

// Get retrieves a cached value. Returns ErrCacheMiss when absent.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	return m.backend.Get(ctx, key)
}

// Set stores a value with the manager's default TTL.
func (m *Manager) Set(ctx context.Context, key string, value []byte) error {
	return m.backend.Set(ctx, key, value, m.ttl)
}

// SetWithTTL stores a value with an explicit TTL.
func (m *Manager) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.backend.Set(ctx, key, value, ttl)
}

// Delete removes a single key.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.backend.Delete(ctx, key)
}

// InvalidateTable evicts every entry for a content table along with all
// rendered pages, which may embed that table's rows.
func (m *Manager) InvalidateTable(ctx context.Context, table string) error {
	if err := m.backend.DeleteByPrefix(ctx, table+":"); err != nil {
		return err
	}
	return m.backend.DeleteByPrefix(ctx, "page:")
}

// Clear evicts everything.
func (m *Manager) Clear(ctx context.Context) error {
	return m.backend.Clear(ctx)
}

// Stats reports backend statistics when the backend supports them.
func (m *Manager) Stats() (Stats, bool) {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats(), true
	}
	return Stats{}, false
}

// Run subscribes to the broker and evicts stale entries as content
// changes. Blocks until ctx is canceled or the broker closes.
func (m *Manager) Run(ctx context.Context, broker *notify.Broker) {
	events := broker.Subscribe()
	defer broker.Unsubscribe(events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := m.InvalidateTable(ctx, ev.Table); err != nil {
				slog.Warn("cache invalidation failed",
					"table", ev.Table,
					"op", ev.Op,
					"error", err)
			}
		}
	}
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
