// Package export renders the document collection as CSV or XLSX for
// use in spreadsheet tools.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"facturio/internal/domain"
	"facturio/internal/money"
)

// BOM is the UTF-8 byte order mark, prepended for Excel compatibility
// on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row.
var columns = []string{
	"Document Number",
	"Type",
	"Issue Date",
	"Due Date",
	"Client Name",
	"Client Email",
	"Provider Name",
	"Provider SIRET",
	"Subtotal",
	"Discount",
	"Tax",
	"Advance Payment",
	"Total",
	"Line Item Count",
	"Quotation Ref",
	"Converted",
	"Notes",
	"Created At",
}

// Writer wraps csv.Writer for exporting documents as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments converts a batch of documents to CSV rows and writes them.
func (w *Writer) WriteDocuments(docs []domain.Document) error {
	for i := range docs {
		if err := w.csv.Write(documentToRow(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func documentToRow(doc *domain.Document) []string {
	row := make([]string, len(columns))
	row[0] = doc.DocumentNumber
	row[1] = string(doc.DocumentType)
	row[2] = doc.IssueDate
	row[3] = doc.DueDate
	row[4] = doc.Client.Name
	row[5] = doc.Client.Email
	row[6] = doc.Provider.Name
	row[7] = doc.Provider.SIRET
	row[8] = money.Subtotal(doc.Items).StringFixed(2)
	row[9] = money.DiscountAmount(doc.Items, doc.Discount).StringFixed(2)
	row[10] = money.TaxAmount(doc.Items, doc.TaxRate, doc.Discount).StringFixed(2)
	row[11] = money.AdvanceDeduction(doc.AdvancePayment).StringFixed(2)
	row[12] = money.DocumentTotal(doc).StringFixed(2)
	row[13] = strconv.Itoa(len(doc.Items))
	row[14] = doc.QuotationID
	row[15] = strconv.FormatBool(doc.ConvertedToInvoice)
	row[16] = doc.Notes
	row[17] = doc.CreatedAt.Format(time.RFC3339)
	return row
}
