package noop

import (
	"context"
	"log"

	"facturio/internal/domain"
	"facturio/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of
// sending, for development setups without SES credentials.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendDocument(_ context.Context, toEmail, subject, _ string, doc *domain.Document) error {
	log.Printf("[NOOP EMAIL] %s %s to %s (subject %q)", doc.DocumentType, doc.DocumentNumber, toEmail, subject)
	return nil
}
