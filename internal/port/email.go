package port

import (
	"context"

	"facturio/internal/domain"
)

// EmailSender defines the contract for sending a document to a client.
type EmailSender interface {
	SendDocument(ctx context.Context, toEmail, subject, message string, doc *domain.Document) error
}
