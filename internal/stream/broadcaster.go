// Package stream fans completed projection records out to any number of
// live subscribers (served over SSE by the API layer).
package stream

import (
	"sync"
	"sync/atomic"

	"github.com/mkrell/consequence-mirror/internal/models"
)

// subscriberBuffer absorbs bursts so one slow consumer never blocks the
// recorder path; overflowing subscribers miss records instead.
const subscriberBuffer = 32

type Broadcaster struct {
	subscribers map[uint64]chan *models.ProjectionRecord
	nextID      atomic.Uint64
	mu          sync.RWMutex
	closed      bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan *models.ProjectionRecord),
	}
}

// Subscribe registers a listener and returns its id and receive channel.
// The channel is closed on Unsubscribe or Close.
func (b *Broadcaster) Subscribe() (uint64, <-chan *models.ProjectionRecord) {
	id := b.nextID.Add(1)
	ch := make(chan *models.ProjectionRecord, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subscribers[id] = ch
	}
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Broadcast(rec *models.ProjectionRecord) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- rec:
		default:
			// Skip slow subscribers
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels so streams exit gracefully. Late
// Subscribe calls receive an already-closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
