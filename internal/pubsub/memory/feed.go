// Package memory implements an in-process ChangeFeed for single-replica
// deployments and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"solarhub/internal/port"
)

// Feed is an in-memory per-owner ChangeFeed.
type Feed struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[*subscription]struct{}
}

// NewFeed creates an empty in-memory feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[uuid.UUID]map[*subscription]struct{})}
}

var _ port.ChangeFeed = (*Feed)(nil)

func (f *Feed) Publish(_ context.Context, ownerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for s := range f.subs[ownerID] {
		select {
		case s.out <- struct{}{}:
		default:
		}
	}
	return nil
}

func (f *Feed) Subscribe(_ context.Context, ownerID uuid.UUID) (port.FeedSubscription, error) {
	s := &subscription{feed: f, owner: ownerID, out: make(chan struct{}, 1)}
	f.mu.Lock()
	if f.subs[ownerID] == nil {
		f.subs[ownerID] = make(map[*subscription]struct{})
	}
	f.subs[ownerID][s] = struct{}{}
	f.mu.Unlock()
	return s, nil
}

// Subscribers returns the number of live subscriptions for ownerID.
func (f *Feed) Subscribers(ownerID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[ownerID])
}

func (f *Feed) remove(s *subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.subs[s.owner]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(f.subs, s.owner)
		}
	}
	close(s.out)
}

type subscription struct {
	feed  *Feed
	owner uuid.UUID
	out   chan struct{}
	once  sync.Once
}

func (s *subscription) C() <-chan struct{} { return s.out }

func (s *subscription) Close() error {
	s.once.Do(func() { s.feed.remove(s) })
	return nil
}
