package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"solarhub/internal/port"
)

// MockChangeFeed is a mock implementation of port.ChangeFeed.
type MockChangeFeed struct {
	mock.Mock
}

func (m *MockChangeFeed) Publish(ctx context.Context, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockChangeFeed) Subscribe(ctx context.Context, ownerID uuid.UUID) (port.FeedSubscription, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.FeedSubscription), args.Error(1)
}
