package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"urudzbenik/internal/model"
)

type MockAllocator struct {
	mock.Mock
}

func (m *MockAllocator) Next(ctx context.Context, direction model.FlowDirection, year int) (string, error) {
	args := m.Called(ctx, direction, year)
	return args.String(0), args.Error(1)
}
