package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"facturio/internal/domain"
	"facturio/internal/match"
	"facturio/internal/numbering"
	"facturio/internal/port"
)

// ImportResult is returned by ImportJSON. FirstID identifies the first
// document that survived validation (saved or pending); Duplicates
// aggregates every existing document matched across the batch.
type ImportResult struct {
	FirstID    uuid.UUID         `json:"firstId"`
	Imported   []domain.Document `json:"imported"`
	Pending    []domain.Document `json:"pending"`
	Duplicates []domain.Document `json:"duplicates"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// DocumentService orchestrates the document lifecycle: persistence,
// numbering, quote conversion, and JSON import/export with duplicate
// flagging.
type DocumentService interface {
	List(ctx context.Context) ([]domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
	Remove(ctx context.Context, id uuid.UUID) error
	ConvertQuoteToInvoice(ctx context.Context, quoteID uuid.UUID) (*domain.Document, error)
	FindDuplicates(ctx context.Context, doc *domain.Document) ([]match.Pair, error)
	ImportJSON(ctx context.Context, raw []byte, checkDuplicates bool) (*ImportResult, error)
	ConfirmImport(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	ExportJSON(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	ExportAllJSON(ctx context.Context, docType string) ([]byte, string, error)
	SendByEmail(ctx context.Context, id uuid.UUID, to, subject, message string) error
}

type documentService struct {
	docRepo   port.DocumentRepository
	allocator *numbering.Allocator
	email     port.EmailSender

	// Imported documents flagged as probable duplicates are held here,
	// unsaved, until the caller confirms or abandons them.
	pendingMu sync.Mutex
	pending   map[uuid.UUID]*domain.Document
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(docRepo port.DocumentRepository, allocator *numbering.Allocator, email port.EmailSender) DocumentService {
	return &documentService{
		docRepo:   docRepo,
		allocator: allocator,
		email:     email,
		pending:   map[uuid.UUID]*domain.Document{},
	}
}

func (s *documentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docRepo.List(ctx)
}

func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// Create assigns a fresh identifier and an allocator-issued number,
// then persists the document.
func (s *documentService) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if !domain.ValidDocumentTypes[doc.DocumentType] {
		return nil, domain.ErrInvalidDocumentType
	}

	number, err := s.allocator.NextNumber(ctx, doc.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("documentService.Create: %w", err)
	}

	doc.ID = uuid.New()
	doc.DocumentNumber = number
	if doc.IssueDate == "" {
		doc.IssueDate = today()
	}
	if err := s.docRepo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("documentService.Create: %w", err)
	}
	return doc, nil
}

// Save upserts by identifier. The document number is never touched
// here; numbering belongs to Create and ConvertQuoteToInvoice.
func (s *documentService) Save(ctx context.Context, doc *domain.Document) error {
	if err := s.docRepo.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("documentService.Save: %w", err)
	}
	return nil
}

// Remove deletes by identifier. Counters are never decremented or
// reset: the deleted number stays burned.
func (s *documentService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("documentService.Remove: %w", err)
	}
	return nil
}

// ConvertQuoteToInvoice marks the quote converted and creates a new
// invoice carrying the quote's number as its back-reference. The new
// invoice gets a fresh identifier, a freshly allocated invoice number,
// and today's issue date; every other field is copied from the quote.
func (s *documentService) ConvertQuoteToInvoice(ctx context.Context, quoteID uuid.UUID) (*domain.Document, error) {
	quote, err := s.docRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("documentService.ConvertQuoteToInvoice: %w", err)
	}
	if quote.DocumentType != domain.TypeQuote {
		return nil, domain.ErrQuoteNotFound
	}

	number, err := s.allocator.NextNumber(ctx, domain.TypeInvoice)
	if err != nil {
		return nil, fmt.Errorf("documentService.ConvertQuoteToInvoice: %w", err)
	}

	quote.ConvertedToInvoice = true

	invoice := *quote
	invoice.ID = uuid.New()
	invoice.DocumentType = domain.TypeInvoice
	invoice.DocumentNumber = number
	invoice.IssueDate = today()
	// The durable reference is the quote's number, not its identifier.
	invoice.QuotationID = quote.DocumentNumber

	if err := s.docRepo.Upsert(ctx, quote); err != nil {
		return nil, fmt.Errorf("documentService.ConvertQuoteToInvoice: saving quote: %w", err)
	}
	if err := s.docRepo.Upsert(ctx, &invoice); err != nil {
		return nil, fmt.Errorf("documentService.ConvertQuoteToInvoice: saving invoice: %w", err)
	}
	return &invoice, nil
}

// FindDuplicates runs the general-purpose matcher against the stored
// collection.
func (s *documentService) FindDuplicates(ctx context.Context, doc *domain.Document) ([]match.Pair, error) {
	existing, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("documentService.FindDuplicates: %w", err)
	}
	return match.FindDuplicates(doc, existing), nil
}

// importRecord is the loose shape accepted from import payloads.
// Pointer fields distinguish absent from zero.
type importRecord struct {
	DocumentNumber     string           `json:"documentNumber"`
	DocumentType       string           `json:"documentType"`
	IssueDate          string           `json:"issueDate"`
	DueDate            string           `json:"dueDate"`
	Client             *domain.Client   `json:"client"`
	Provider           *domain.Provider `json:"provider"`
	Items              *domain.Items    `json:"items"`
	TaxRate            *decimal.Decimal `json:"taxRate"`
	Discount           *decimal.Decimal `json:"discount"`
	Notes              string           `json:"notes"`
	TotalAmount        *decimal.Decimal `json:"totalAmount"`
	QuotationID        string           `json:"quotationId"`
	ConvertedToInvoice bool             `json:"convertedToInvoice"`
}

// ImportJSON parses a payload holding one document object or an array
// of them. Invalid JSON aborts; individually invalid records are
// skipped with a warning; the batch fails only when nothing survives.
// Each surviving record is rehydrated with a fresh identifier while its
// documentNumber is preserved verbatim — external numbering continuity
// matters more than uniqueness here, which is exactly what the
// duplicate check is for. With checkDuplicates, matched records are
// held back as pending instead of saved.
func (s *documentService) ImportJSON(ctx context.Context, raw []byte, checkDuplicates bool) (*ImportResult, error) {
	elements, err := splitPayload(raw)
	if err != nil {
		return nil, err
	}

	existing, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("documentService.ImportJSON: %w", err)
	}

	result := &ImportResult{}
	var imported []domain.Document

	for idx, element := range elements {
		doc, warn := rehydrate(element)
		if warn != "" {
			msg := fmt.Sprintf("record %d skipped: %s", idx, warn)
			log.Printf("documentService.ImportJSON: %s", msg)
			result.Warnings = append(result.Warnings, msg)
			continue
		}

		if checkDuplicates {
			matches := match.FindPotentialDuplicates(doc, existing)
			if len(matches) > 0 {
				result.Duplicates = append(result.Duplicates, matches...)
				s.holdPending(doc)
				result.Pending = append(result.Pending, *doc)
				imported = append(imported, *doc)
				continue
			}
		}

		if err := s.docRepo.Upsert(ctx, doc); err != nil {
			return nil, fmt.Errorf("documentService.ImportJSON: saving %s: %w", doc.DocumentNumber, err)
		}
		existing = append(existing, *doc)
		result.Imported = append(result.Imported, *doc)
		imported = append(imported, *doc)
	}

	if len(imported) == 0 {
		return nil, domain.ErrNoImportableDocuments
	}
	result.FirstID = imported[0].ID
	return result, nil
}

// ConfirmImport persists a previously held-back pending document; the
// caller has decided to accept the duplicate.
func (s *documentService) ConfirmImport(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	s.pendingMu.Lock()
	doc, ok := s.pending[id]
	s.pendingMu.Unlock()
	if !ok {
		return nil, domain.ErrPendingImportNotFound
	}

	if err := s.docRepo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("documentService.ConfirmImport: %w", err)
	}

	s.pendingMu.Lock()
	delete(s.pending, id)
	s.pendingMu.Unlock()
	return doc, nil
}

// ExportJSON serializes one document for download. The suggested file
// name mirrors the original export: <type>-<number>.json.
func (s *documentService) ExportJSON(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("documentService.ExportJSON: %w", err)
	}
	return data, fmt.Sprintf("%s-%s.json", doc.DocumentType, doc.DocumentNumber), nil
}

// ExportAllJSON serializes the whole collection, optionally filtered by
// type ("invoice" or "quote"; anything else means all).
func (s *documentService) ExportAllJSON(ctx context.Context, docType string) ([]byte, string, error) {
	var docs []domain.Document
	var err error
	name := fmt.Sprintf("documents-%s.json", today())

	switch domain.DocumentType(docType) {
	case domain.TypeInvoice, domain.TypeQuote:
		docs, err = s.docRepo.ListByType(ctx, domain.DocumentType(docType))
		name = fmt.Sprintf("%ss-%s.json", docType, today())
	default:
		docs, err = s.docRepo.List(ctx)
	}
	if err != nil {
		return nil, "", fmt.Errorf("documentService.ExportAllJSON: %w", err)
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("documentService.ExportAllJSON: %w", err)
	}
	return data, name, nil
}

// SendByEmail sends a document to the given address. Empty subject and
// message fall back to defaults built from the document number.
func (s *documentService) SendByEmail(ctx context.Context, id uuid.UUID, to, subject, message string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.email.SendDocument(ctx, to, subject, message, doc); err != nil {
		return fmt.Errorf("documentService.SendByEmail: %w", err)
	}
	return nil
}

func (s *documentService) holdPending(doc *domain.Document) {
	s.pendingMu.Lock()
	s.pending[doc.ID] = doc
	s.pendingMu.Unlock()
}

// splitPayload accepts either a single JSON object or an array of them.
func splitPayload(raw []byte) ([]json.RawMessage, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err == nil {
		return elements, nil
	}

	if !json.Valid(raw) {
		return nil, domain.ErrInvalidImportPayload
	}
	return []json.RawMessage{json.RawMessage(raw)}, nil
}

// rehydrate validates one import element and builds a fresh document
// from it. Returns a non-empty warning instead of a document when the
// record is invalid.
func rehydrate(element json.RawMessage) (*domain.Document, string) {
	var rec importRecord
	if err := json.Unmarshal(element, &rec); err != nil {
		return nil, "not a document object"
	}

	if rec.DocumentType == "" || rec.DocumentNumber == "" {
		return nil, "missing documentType or documentNumber"
	}
	docType := domain.DocumentType(rec.DocumentType)
	if !domain.ValidDocumentTypes[docType] {
		return nil, fmt.Sprintf("unrecognized document type %q", rec.DocumentType)
	}
	if rec.Client == nil || rec.Provider == nil || rec.Items == nil {
		return nil, "incomplete structure: client, provider, and items are required"
	}

	doc := &domain.Document{
		ID:                 uuid.New(),
		DocumentNumber:     rec.DocumentNumber,
		DocumentType:       docType,
		IssueDate:          rec.IssueDate,
		DueDate:            rec.DueDate,
		Client:             *rec.Client,
		Provider:           *rec.Provider,
		Items:              *rec.Items,
		Discount:           rec.Discount,
		Notes:              rec.Notes,
		TotalAmount:        rec.TotalAmount,
		QuotationID:        rec.QuotationID,
		ConvertedToInvoice: rec.ConvertedToInvoice,
	}
	if rec.TaxRate != nil {
		doc.TaxRate = *rec.TaxRate
	}
	if doc.IssueDate == "" {
		doc.IssueDate = today()
	}
	return doc, ""
}

func today() string {
	return time.Now().Format("2006-01-02")
}
