package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLogoService is a mock implementation of service.LogoService.
type MockLogoService struct {
	mock.Mock
}

func (m *MockLogoService) SetLogo(ctx context.Context, data []byte, contentType string) error {
	args := m.Called(ctx, data, contentType)
	return args.Error(0)
}

func (m *MockLogoService) GetLogo(ctx context.Context) ([]byte, string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockLogoService) DeleteLogo(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
