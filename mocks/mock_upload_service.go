package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"solarhub/internal/domain"
	"solarhub/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) UploadFiles(ctx context.Context, input service.UploadInput) (*service.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockUploadService) DeleteFiles(ctx context.Context, files domain.ApplicationFiles) {
	m.Called(ctx, files)
}

func (m *MockUploadService) SignFiles(ctx context.Context, files domain.ApplicationFiles) domain.ApplicationFiles {
	args := m.Called(ctx, files)
	return args.Get(0).(domain.ApplicationFiles)
}
