package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"solarhub/internal/domain"
	"solarhub/internal/port"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewApplication(ctx context.Context, app *domain.Application) (*port.NotifyResult, error) {
	args := m.Called(ctx, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.NotifyResult), args.Error(1)
}
