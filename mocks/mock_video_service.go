package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tubely/internal/domain"
	"tubely/internal/service"
)

// MockVideoService is a mock implementation of service.VideoService.
type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) Create(ctx context.Context, input service.VideoCreateInput) (*domain.Video, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}

func (m *MockVideoService) Ingest(ctx context.Context, input service.IngestInput) (*domain.Video, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}

func (m *MockVideoService) GetByID(ctx context.Context, videoID uuid.UUID) (*domain.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}

func (m *MockVideoService) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Video, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Video), args.Int(1), args.Error(2)
}

func (m *MockVideoService) Resolve(ctx context.Context, video *domain.Video) (*domain.Video, error) {
	args := m.Called(ctx, video)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}
