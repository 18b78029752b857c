package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturio/internal/domain"
)

func sampleDocument() domain.Document {
	discount := decimal.NewFromInt(10)
	return domain.Document{
		ID:             uuid.New(),
		DocumentNumber: "FAC-2026-01-001",
		DocumentType:   domain.TypeInvoice,
		IssueDate:      "2026-01-15",
		DueDate:        "2026-02-14",
		Client:         domain.Client{Name: "Jean Dupont", Email: "jean@example.fr"},
		Provider:       domain.Provider{Name: "Atelier Durand", SIRET: "12345678901234"},
		Items: domain.Items{{
			ID:          "item-1",
			Description: "prestation",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(50),
		}},
		TaxRate:   decimal.NewFromInt(20),
		Discount:  &discount,
		CreatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 18)
	assert.Equal(t, "Document Number", row[0])
	assert.Equal(t, "Created At", row[17])
}

func TestWriteDocuments(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments([]domain.Document{sampleDocument()}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "FAC-2026-01-001", row[0])
	assert.Equal(t, "invoice", row[1])
	assert.Equal(t, "Jean Dupont", row[4])
	// subtotal 100, discount 10, tax on 90 = 18, total 108
	assert.Equal(t, "100.00", row[8])
	assert.Equal(t, "10.00", row[9])
	assert.Equal(t, "18.00", row[10])
	assert.Equal(t, "108.00", row[12])
	assert.Equal(t, "1", row[13])
}

// brokenWriter fails every write, like a client that hung up
// mid-download.
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestWriterSurfacesUnderlyingWriteError(t *testing.T) {
	w := NewWriter(brokenWriter{})
	require.NoError(t, w.WriteHeader()) // buffered, not yet flushed
	w.Flush()
	assert.ErrorContains(t, w.Error(), "connection reset")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []domain.Document{sampleDocument()}))
	// XLSX files are zip archives; check the magic bytes.
	assert.Equal(t, []byte{0x50, 0x4B}, buf.Bytes()[:2])
}
