package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRelocator is a mock implementation of port.Relocator.
type MockRelocator struct {
	mock.Mock
}

func (m *MockRelocator) Upload(ctx context.Context, localPath, key, contentType string) (string, error) {
	args := m.Called(ctx, localPath, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockRelocator) Remove(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockRelocator) Presign(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, ref, ttl)
	return args.String(0), args.Error(1)
}
