package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"facturio/internal/domain"
	"facturio/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) List(ctx context.Context) ([]domain.Document, error) {
	docs := []domain.Document{}
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) ListByType(ctx context.Context, docType domain.DocumentType) ([]domain.Document, error) {
	docs := []domain.Document{}
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents WHERE document_type = $1 ORDER BY created_at ASC", docType)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByType: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) Upsert(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, document_number, document_type, issue_date, due_date,
		client, provider, items,
		tax_rate, discount, advance_payment, notes, total_amount,
		quotation_id, converted_to_invoice, payment_method,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11, $12, $13,
		$14, $15, $16,
		$17, $18
	)
	ON CONFLICT (id) DO UPDATE SET
		document_number = EXCLUDED.document_number,
		document_type = EXCLUDED.document_type,
		issue_date = EXCLUDED.issue_date,
		due_date = EXCLUDED.due_date,
		client = EXCLUDED.client,
		provider = EXCLUDED.provider,
		items = EXCLUDED.items,
		tax_rate = EXCLUDED.tax_rate,
		discount = EXCLUDED.discount,
		advance_payment = EXCLUDED.advance_payment,
		notes = EXCLUDED.notes,
		total_amount = EXCLUDED.total_amount,
		quotation_id = EXCLUDED.quotation_id,
		converted_to_invoice = EXCLUDED.converted_to_invoice,
		payment_method = EXCLUDED.payment_method,
		updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.DocumentNumber, doc.DocumentType, doc.IssueDate, doc.DueDate,
		doc.Client, doc.Provider, doc.Items,
		doc.TaxRate, doc.Discount, doc.AdvancePayment, doc.Notes, doc.TotalAmount,
		doc.QuotationID, doc.ConvertedToInvoice, doc.PaymentMethod,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Upsert: %w", err)
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
