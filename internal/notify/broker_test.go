package notify

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker(4)
	defer b.Close()

	ch := b.Subscribe()

	b.Publish(Event{Table: TableEventos, Op: OpInsert, ID: 42})

	select {
	case ev := <-ch:
		if ev.Table != TableEventos {
			t.Errorf("Table = %q, want %q", ev.Table, TableEventos)
		}
		if ev.Op != OpInsert {
			t.Errorf("Op = %q, want %q", ev.Op, OpInsert)
		}
		if ev.ID != 42 {
			t.Errorf("ID = %d, want 42", ev.ID)
		}
		if ev.At.IsZero() {
			t.Error("At should be stamped on publish")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker(4)
	defer b.Close()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	if got := b.SubscriberCount(); got != 2 {
		t.Fatalf("SubscriberCount = %d, want 2", got)
	}

	b.Publish(Event{Table: TableNoticias, Op: OpUpdate, ID: 7})

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.ID != 7 {
				t.Errorf("subscriber %d: ID = %d, want 7", i, ev.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out", i)
		}
	}
}

func TestBrokerSlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker(1)
	defer b.Close()

	ch := b.Subscribe()

	// Fill the buffer and keep publishing; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(Event{Table: TableSocialLinks, Op: OpDelete, ID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// The subscriber still gets the first event.
	select {
	case ev := <-ch:
		if ev.ID != 0 {
			t.Errorf("ID = %d, want 0", ev.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for buffered event")
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(4)
	defer b.Close()

	ch := b.Subscribe()
	b.Unsubscribe(ch)

	if got := b.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount = %d, want 0", got)
	}

	// Channel must be closed
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}

	// Double unsubscribe is a no-op
	b.Unsubscribe(ch)
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker(4)

	ch := b.Subscribe()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Close")
	}

	// Publishing and subscribing after close must not panic
	b.Publish(Event{Table: TableEventos, Op: OpInsert, ID: 1})
	ch2 := b.Subscribe()
	if _, ok := <-ch2; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}
