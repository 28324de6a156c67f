package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"solarhub/internal/offer"
	"solarhub/internal/savings"
	"solarhub/internal/service"
)

// MockEstimateService is a mock implementation of service.EstimateService.
type MockEstimateService struct {
	mock.Mock
}

func (m *MockEstimateService) EstimateSavings(input service.EstimateInput) savings.Projection {
	args := m.Called(input)
	return args.Get(0).(savings.Projection)
}

func (m *MockEstimateService) EstimateOffers(input service.EstimateInput) (offer.Quote, error) {
	args := m.Called(input)
	return args.Get(0).(offer.Quote), args.Error(1)
}

func (m *MockEstimateService) ApplicationSavings(ctx context.Context, caller service.Caller, id uuid.UUID, years int) (*savings.Projection, error) {
	args := m.Called(ctx, caller, id, years)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*savings.Projection), args.Error(1)
}

func (m *MockEstimateService) ApplicationOffers(ctx context.Context, caller service.Caller, id uuid.UUID) (*offer.Quote, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Quote), args.Error(1)
}
