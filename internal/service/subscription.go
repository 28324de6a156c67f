package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solarhub/internal/domain"
)

// Subscription streams an owner's application list. The current list is
// delivered first and again after every change. C is closed once the
// subscription ends.
type Subscription struct {
	C <-chan []domain.Application

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Cancel ends the subscription and waits for the listener to deregister.
// No list is delivered after Cancel returns.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (s *applicationService) Subscribe(ctx context.Context, ownerID uuid.UUID) (*Subscription, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewFieldError("owner_id", "is required")
	}

	feedSub, err := s.feed.Subscribe(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("applicationService.Subscribe: %w", err)
	}

	initial, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		_ = feedSub.Close()
		return nil, fmt.Errorf("applicationService.Subscribe: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	out := make(chan []domain.Application, 1)
	sub := &Subscription{C: out, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer close(out)
		defer func() { _ = feedSub.Close() }()

		list := initial
		for {
			select {
			case out <- list:
			case <-subCtx.Done():
				return
			}

			select {
			case <-subCtx.Done():
				return
			case _, ok := <-feedSub.C():
				if !ok {
					return
				}
			}

			next, err := s.repo.ListByOwner(subCtx, ownerID)
			for err != nil {
				if subCtx.Err() != nil {
					return
				}
				s.log.Warn("applicationService.Subscribe: reload failed",
					zap.String("owner_id", ownerID.String()), zap.Error(err))
				// Wait for the next change before retrying.
				select {
				case <-subCtx.Done():
					return
				case _, ok := <-feedSub.C():
					if !ok {
						return
					}
				}
				next, err = s.repo.ListByOwner(subCtx, ownerID)
			}
			list = next
		}
	}()

	return sub, nil
}
