package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"solarhub/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendNewApplicationEmail(ctx context.Context, recipients []string, app *domain.Application) error {
	args := m.Called(ctx, recipients, app)
	return args.Error(0)
}
