package port

import (
	"context"

	"github.com/google/uuid"
)

// FeedSubscription receives a signal each time the owner's applications change.
// Signals carry no payload; listeners re-query the store.
type FeedSubscription interface {
	C() <-chan struct{}
	Close() error
}

// ChangeFeed fans out per-owner change signals.
type ChangeFeed interface {
	Publish(ctx context.Context, ownerID uuid.UUID) error
	Subscribe(ctx context.Context, ownerID uuid.UUID) (FeedSubscription, error)
}
