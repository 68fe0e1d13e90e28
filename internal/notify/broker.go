// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify provides an in-process change broadcast: content writers
// publish typed table change events and subscribers (the websocket hub,
// the content cache) react to them.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Operations carried by change events.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Tables that emit change events.
const (
	TableEventos     = "eventos"
	TableNoticias    = "noticias"
	TableSocialLinks = "social_links"
)

// Event describes a single row change on a content table.
type Event struct {
	Table string    `json:"table"`
	Op    string    `json:"op"`
	ID    int64     `json:"id"`
	At    time.Time `json:"at"`
}

// Broker fans change events out to subscribers. Publishing never blocks:
// a subscriber that cannot keep up has events dropped, and the slow
// channel is logged.
type Broker struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	buffer int
	closed bool
}

// NewBroker creates a broker. Each subscriber channel is buffered with
// the given size (minimum 1).
func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	return &Broker{
		subs:   make(map[chan Event]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its event channel.
// The channel is closed by Close or Unsubscribe.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

// Publish delivers an event to all subscribers without blocking.
func (b *Broker) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("dropping change event for slow subscriber",
				"table", ev.Table, "op", ev.Op, "id", ev.ID)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close shuts the broker down and closes all subscriber channels.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[chan Event]struct{})
}
