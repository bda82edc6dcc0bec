package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tubely/internal/domain"
)

// MockMediaProber is a mock implementation of port.MediaProber.
type MockMediaProber struct {
	mock.Mock
}

func (m *MockMediaProber) Probe(ctx context.Context, path string) (domain.Geometry, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(domain.Geometry), args.Error(1)
}

// MockMediaOptimizer is a mock implementation of port.MediaOptimizer.
type MockMediaOptimizer struct {
	mock.Mock
}

func (m *MockMediaOptimizer) Optimize(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	if fn, ok := args.Get(0).(func(context.Context, string) string); ok {
		return fn(ctx, path), args.Error(1)
	}
	return args.String(0), args.Error(1)
}
