package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tubely/internal/domain"
)

// MockVideoRepo is a mock implementation of port.VideoRepository.
type MockVideoRepo struct {
	mock.Mock
}

func (m *MockVideoRepo) Create(ctx context.Context, video *domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepo) GetByID(ctx context.Context, videoID uuid.UUID) (*domain.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}

func (m *MockVideoRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Video, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Video), args.Int(1), args.Error(2)
}

func (m *MockVideoRepo) Update(ctx context.Context, video *domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}
