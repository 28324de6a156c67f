package service

import (
	"sync"

	"go.uber.org/zap"

	"solarhub/internal/domain"
	"solarhub/internal/metrics"
)

// EventBus carries ApplicationCreated events from the request path to the
// notification worker. Publishing never blocks: a full buffer drops the event.
type EventBus struct {
	ch     chan domain.ApplicationCreated
	log    *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewEventBus creates a bus buffering up to size events.
func NewEventBus(size int, log *zap.Logger) *EventBus {
	if size < 1 {
		size = 1
	}
	return &EventBus{ch: make(chan domain.ApplicationCreated, size), log: log}
}

// Publish enqueues evt and reports whether it was accepted.
func (b *EventBus) Publish(evt domain.ApplicationCreated) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}
	select {
	case b.ch <- evt:
		return true
	default:
		metrics.EventsDropped.Inc()
		b.log.Warn("eventBus.Publish: buffer full, dropping event",
			zap.String("application_id", evt.Application.ID.String()))
		return false
	}
}

// Events returns the receive side of the bus. It is closed by Close.
func (b *EventBus) Events() <-chan domain.ApplicationCreated {
	return b.ch
}

// Close stops accepting events and closes the channel once.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
