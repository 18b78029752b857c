package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"facturio/internal/domain"
	"facturio/internal/numbering"
	"facturio/internal/service"
	"facturio/mocks"
)

func setupDocumentService() (
	service.DocumentService,
	*mocks.MockDocumentRepo,
	*mocks.MockCounterRepo,
	*mocks.MockEmailSender,
) {
	docRepo := new(mocks.MockDocumentRepo)
	counterRepo := new(mocks.MockCounterRepo)
	email := new(mocks.MockEmailSender)
	allocator := numbering.NewAllocator(counterRepo, numbering.Config{})
	svc := service.NewDocumentService(docRepo, allocator, email)
	return svc, docRepo, counterRepo, email
}

func lineItem(description string, qty, price int64) domain.Item {
	return domain.Item{
		ID:          uuid.NewString(),
		Description: description,
		Quantity:    decimal.NewFromInt(qty),
		UnitPrice:   decimal.NewFromInt(price),
	}
}

func sampleQuote() *domain.Document {
	return &domain.Document{
		ID:             uuid.New(),
		DocumentNumber: "DEV-2026-03-001",
		DocumentType:   domain.TypeQuote,
		IssueDate:      "2026-03-01",
		Client:         domain.Client{Name: "Jean Dupont", Email: "jean@example.fr"},
		Provider:       domain.Provider{Name: "Atelier Martin", SIRET: "12345678901234"},
		Items:          domain.Items{lineItem("Conseil", 2, 500)},
		TaxRate:        decimal.NewFromInt(20),
	}
}

// --- Create ---

func TestDocumentService_Create_AllocatesNumberAndID(t *testing.T) {
	svc, docRepo, counterRepo, _ := setupDocumentService()

	counterRepo.On("LoadCounters", mock.Anything).Return(map[string]int{}, nil)
	counterRepo.On("SaveCounters", mock.Anything, mock.Anything).Return(nil)
	docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	doc := sampleQuote()
	doc.DocumentNumber = ""
	doc.ID = uuid.Nil
	doc.DocumentType = domain.TypeInvoice
	doc.IssueDate = ""

	created, err := svc.Create(context.Background(), doc)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	year := time.Now().Year()
	assert.True(t, strings.HasPrefix(created.DocumentNumber, fmt.Sprintf("FAC-%d-", year)))
	assert.True(t, strings.HasSuffix(created.DocumentNumber, "-001"))
	assert.Equal(t, time.Now().Format("2006-01-02"), created.IssueDate)
	docRepo.AssertExpectations(t)
}

func TestDocumentService_Create_RejectsUnknownType(t *testing.T) {
	svc, docRepo, _, _ := setupDocumentService()

	doc := sampleQuote()
	doc.DocumentType = "receipt"

	_, err := svc.Create(context.Background(), doc)

	assert.ErrorIs(t, err, domain.ErrInvalidDocumentType)
	docRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// --- Remove ---

func TestDocumentService_Remove_NeverTouchesCounters(t *testing.T) {
	svc, docRepo, counterRepo, _ := setupDocumentService()

	id := uuid.New()
	docRepo.On("Delete", mock.Anything, id).Return(nil)

	err := svc.Remove(context.Background(), id)

	require.NoError(t, err)
	counterRepo.AssertNotCalled(t, "SaveCounters", mock.Anything, mock.Anything)
	counterRepo.AssertNotCalled(t, "LoadCounters", mock.Anything)
}

// --- ConvertQuoteToInvoice ---

func TestDocumentService_Convert_Success(t *testing.T) {
	svc, docRepo, counterRepo, _ := setupDocumentService()

	quote := sampleQuote()
	counterRepo.On("LoadCounters", mock.Anything).Return(map[string]int{}, nil)
	counterRepo.On("SaveCounters", mock.Anything, mock.Anything).Return(nil)
	docRepo.On("GetByID", mock.Anything, quote.ID).Return(quote, nil)

	var saved []*domain.Document
	docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Document")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(*domain.Document))
		}).Return(nil)

	invoice, err := svc.ConvertQuoteToInvoice(context.Background(), quote.ID)

	require.NoError(t, err)
	require.Len(t, saved, 2)

	// The quote is saved first, flagged as converted.
	assert.Equal(t, quote.ID, saved[0].ID)
	assert.True(t, saved[0].ConvertedToInvoice)

	assert.Equal(t, domain.TypeInvoice, invoice.DocumentType)
	assert.NotEqual(t, quote.ID, invoice.ID)
	assert.True(t, strings.HasPrefix(invoice.DocumentNumber, "FAC-"))
	assert.Equal(t, "DEV-2026-03-001", invoice.QuotationID)
	assert.Equal(t, time.Now().Format("2006-01-02"), invoice.IssueDate)
	assert.Equal(t, quote.Client, invoice.Client)
	assert.Equal(t, quote.Items, invoice.Items)
}

func TestDocumentService_Convert_NotFound_NoWrites(t *testing.T) {
	svc, docRepo, counterRepo, _ := setupDocumentService()

	id := uuid.New()
	docRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrDocumentNotFound)

	_, err := svc.ConvertQuoteToInvoice(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
	docRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	counterRepo.AssertNotCalled(t, "SaveCounters", mock.Anything, mock.Anything)
}

func TestDocumentService_Convert_InvoiceTarget_NoWrites(t *testing.T) {
	svc, docRepo, counterRepo, _ := setupDocumentService()

	invoice := sampleQuote()
	invoice.DocumentType = domain.TypeInvoice
	docRepo.On("GetByID", mock.Anything, invoice.ID).Return(invoice, nil)

	_, err := svc.ConvertQuoteToInvoice(context.Background(), invoice.ID)

	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
	docRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	counterRepo.AssertNotCalled(t, "SaveCounters", mock.Anything, mock.Anything)
}

// --- ImportJSON ---

func importPayload(docs ...map[string]interface{}) []byte {
	data, _ := json.Marshal(docs)
	return data
}

func validImportRecord(number string) map[string]interface{} {
	return map[string]interface{}{
		"documentNumber": number,
		"documentType":   "invoice",
		"issueDate":      "2026-01-15",
		"client":         map[string]interface{}{"name": "Client A", "email": "a@example.fr"},
		"provider":       map[string]interface{}{"name": "Atelier Martin", "siret": "12345678901234"},
		"items": []map[string]interface{}{
			{"id": "1", "description": "Prestation", "quantity": 1, "unitPrice": 100},
		},
		"taxRate": 20,
	}
}

func TestDocumentService_ImportJSON_SkipsInvalidRecords(t *testing.T) {
	svc, docRepo, _, _ := setupDocumentService()

	docRepo.On("List", mock.Anything).Return([]domain.Document{}, nil)
	docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	payload := importPayload(
		validImportRecord("FAC-2026-01-007"),
		map[string]interface{}{"documentType": "invoice"}, // missing documentNumber
	)

	result, err := svc.ImportJSON(context.Background(), payload, false)

	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "record 1 skipped")
	assert.Equal(t, "FAC-2026-01-007", result.Imported[0].DocumentNumber)
	assert.Equal(t, result.Imported[0].ID, result.FirstID)
}

func TestDocumentService_ImportJSON_InvalidJSON(t *testing.T) {
	svc, _, _, _ := setupDocumentService()

	_, err := svc.ImportJSON(context.Background(), []byte("{not json"), false)

	assert.ErrorIs(t, err, domain.ErrInvalidImportPayload)
}

func TestDocumentService_ImportJSON_NothingImportable(t *testing.T) {
	svc, docRepo, _, _ := setupDocumentService()

	docRepo.On("List", mock.Anything).Return([]domain.Document{}, nil)

	_, err := svc.ImportJSON(context.Background(), []byte("[]"), false)

	assert.ErrorIs(t, err, domain.ErrNoImportableDocuments)
}

func TestDocumentService_ImportJSON_SingleObjectPayload(t *testing.T) {
	svc, docRepo, _, _ := setupDocumentService()

	docRepo.On("List", mock.Anything).Return([]domain.Document{}, nil)
	docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	data, _ := json.Marshal(validImportRecord("FAC-2026-01-008"))

	result, err := svc.ImportJSON(context.Background(), data, false)

	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, "FAC-2026-01-008", result.Imported[0].DocumentNumber)
}

func TestDocumentService_ImportJSON_DuplicateHeldPending(t *testing.T) {
	svc, docRepo, _, _ := setupDocumentService()

	existing := domain.Document{
		ID:             uuid.New(),
		DocumentNumber: "FAC-2026-01-007",
		DocumentType:   domain.TypeInvoice,
		Client:         domain.Client{Name: "Client A"},
		Items:          domain.Items{lineItem("Prestation", 1, 100)},
		TaxRate:        decimal.NewFromInt(20),
	}
	docRepo.On("List", mock.Anything).Return([]domain.Document{existing}, nil)

	payload := importPayload(validImportRecord("FAC-2026-01-007"))

	result, err := svc.ImportJSON(context.Background(), payload, true)

	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.Pending, 1)
	require.NotEmpty(t, result.Duplicates)
	assert.Equal(t, existing.ID, result.Duplicates[0].ID)
	// Nothing was persisted.
	docRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)

	// Confirming persists the held document.
	docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	confirmed, err := svc.ConfirmImport(context.Background(), result.Pending[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "FAC-2026-01-007", confirmed.DocumentNumber)

	// A second confirmation of the same ID fails; the pending slot is gone.
	_, err = svc.ConfirmImport(context.Background(), result.Pending[0].ID)
	assert.ErrorIs(t, err, domain.ErrPendingImportNotFound)
}

func TestDocumentService_ConfirmImport_UnknownID(t *testing.T) {
	svc, _, _, _ := setupDocumentService()

	_, err := svc.ConfirmImport(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrPendingImportNotFound)
}

// --- Export / Import round trip ---

func TestDocumentService_ExportImportRoundTrip(t *testing.T) {
	svc, docRepo, _, _ := setupDocumentService()

	original := sampleQuote()
	docRepo.On("GetByID", mock.Anything, original.ID).Return(original, nil)

	data, filename, err := svc.ExportJSON(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, "quote-DEV-2026-03-001.json", filename)

	docRepo.On("List", mock.Anything).Return([]domain.Document{}, nil)
	docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	result, err := svc.ImportJSON(context.Background(), data, false)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)

	reimported := result.Imported[0]
	assert.Equal(t, original.DocumentNumber, reimported.DocumentNumber)
	assert.Equal(t, original.Client, reimported.Client)
	assert.Equal(t, original.Provider, reimported.Provider)
	assert.True(t, original.TaxRate.Equal(reimported.TaxRate))
	// The internal identifier is never preserved across export/import.
	assert.NotEqual(t, original.ID, reimported.ID)
}

func TestDocumentService_ExportAllJSON_FiltersByType(t *testing.T) {
	svc, docRepo, _, _ := setupDocumentService()

	invoices := []domain.Document{*sampleQuote()}
	invoices[0].DocumentType = domain.TypeInvoice
	docRepo.On("ListByType", mock.Anything, domain.TypeInvoice).Return(invoices, nil)

	data, filename, err := svc.ExportAllJSON(context.Background(), "invoice")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "invoices-"))

	var exported []domain.Document
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Len(t, exported, 1)
}

// --- SendByEmail ---

func TestDocumentService_SendByEmail(t *testing.T) {
	svc, docRepo, _, email := setupDocumentService()

	doc := sampleQuote()
	docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	email.On("SendDocument", mock.Anything, "jean@example.fr", "", "", doc).Return(nil)

	err := svc.SendByEmail(context.Background(), doc.ID, "jean@example.fr", "", "")

	require.NoError(t, err)
	email.AssertExpectations(t)
}
