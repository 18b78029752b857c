package port

import (
	"context"

	"github.com/google/uuid"

	"facturio/internal/domain"
)

// DocumentRepository defines the contract for document persistence,
// keyed by the document's internal identifier.
type DocumentRepository interface {
	List(ctx context.Context) ([]domain.Document, error)
	ListByType(ctx context.Context, docType domain.DocumentType) ([]domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Upsert(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CounterRepository persists the sequence counter map used by document
// numbering. Counters live outside the document collection so deleting
// documents never frees or reuses numbers.
type CounterRepository interface {
	LoadCounters(ctx context.Context) (map[string]int, error)
	SaveCounters(ctx context.Context, counters map[string]int) error
}
