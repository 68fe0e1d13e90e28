// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mvargas/campana-go/internal/notify"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      time.Minute,
		MaxSize:         100,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("hola"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "hola" {
		t.Errorf("got %q, want %q", got, "hola")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "nope")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	if _, err := c.Get(ctx, "k1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
}

func TestMemoryCacheCopyOnGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("abc"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got[0] = 'x'

	again, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemoryCacheDeleteByPrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	keys := []string{"eventos:lista", "eventos:destacados", "noticias:lista"}
	for _, k := range keys {
		if err := c.Set(ctx, k, []byte("v"), 0); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	if err := c.DeleteByPrefix(ctx, "eventos:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	for _, k := range []string{"eventos:lista", "eventos:destacados"} {
		if _, err := c.Get(ctx, k); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("%s should be evicted, got %v", k, err)
		}
	}
	if _, err := c.Get(ctx, "noticias:lista"); err != nil {
		t.Errorf("noticias:lista should survive, got %v", err)
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("double Close: %v", err)
	}
}

func TestMemoryCacheStats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k1", []byte("v"), 0)
	_, _ = c.Get(ctx, "k1")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.Items != 1 {
		t.Errorf("Items = %d, want 1", stats.Items)
	}
}

func TestTableKey(t *testing.T) {
	if got := TableKey("eventos", "lista"); got != "eventos:lista" {
		t.Errorf("TableKey = %q", got)
	}
	if got := TableKey("noticias", "slug", "mi-nota"); got != "noticias:slug:mi-nota" {
		t.Errorf("TableKey = %q", got)
	}
	if got := PageKey("/propuestas"); got != "page:/propuestas" {
		t.Errorf("PageKey = %q", got)
	}
}

func TestManagerInvalidateTable(t *testing.T) {
	m := NewManagerWithBackend(newTestCache(t), time.Minute)
	ctx := context.Background()

	_ = m.Set(ctx, TableKey("eventos", "lista"), []byte("e"))
	_ = m.Set(ctx, TableKey("noticias", "lista"), []byte("n"))
	_ = m.Set(ctx, PageKey("/"), []byte("home"))

	if err := m.InvalidateTable(ctx, "eventos"); err != nil {
		t.Fatalf("InvalidateTable: %v", err)
	}

	if _, err := m.Get(ctx, TableKey("eventos", "lista")); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("eventos entry should be gone, got %v", err)
	}
	if _, err := m.Get(ctx, PageKey("/")); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("page entry should be gone, got %v", err)
	}
	if _, err := m.Get(ctx, TableKey("noticias", "lista")); err != nil {
		t.Errorf("noticias entry should survive, got %v", err)
	}
}

func TestManagerRunInvalidatesOnEvent(t *testing.T) {
	m := NewManagerWithBackend(newTestCache(t), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := notify.NewBroker(8)
	defer broker.Close()

	done := make(chan struct{})
	go func() {
		m.Run(ctx, broker)
		close(done)
	}()

	// Give Run a moment to subscribe before publishing.
	deadline := time.Now().Add(time.Second)
	for broker.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	_ = m.Set(ctx, TableKey("noticias", "lista"), []byte("n"))

	broker.Publish(notify.Event{Table: notify.TableNoticias, Op: notify.OpUpdate, ID: 42})

	evicted := false
	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := m.Get(ctx, TableKey("noticias", "lista")); errors.Is(err, ErrCacheMiss) {
			evicted = true
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !evicted {
		t.Error("entry not evicted after change event")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Run did not stop after cancel")
	}
}

func TestManagerFactoryMemoryBackend(t *testing.T) {
	m, err := NewManager(ManagerOptions{TTL: time.Minute, MaxSize: 10})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	if _, ok := m.backend.(*MemoryCache); !ok {
		t.Errorf("expected memory backend, got %T", m.backend)
	}
	if _, ok := m.Stats(); !ok {
		t.Error("memory backend should provide stats")
	}
}
