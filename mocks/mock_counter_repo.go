package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCounterRepo is a mock implementation of port.CounterRepository.
type MockCounterRepo struct {
	mock.Mock
}

func (m *MockCounterRepo) LoadCounters(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockCounterRepo) SaveCounters(ctx context.Context, counters map[string]int) error {
	args := m.Called(ctx, counters)
	return args.Error(0)
}
