package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"facturio/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendDocument(ctx context.Context, toEmail, subject, message string, doc *domain.Document) error {
	args := m.Called(ctx, toEmail, subject, message, doc)
	return args.Error(0)
}
