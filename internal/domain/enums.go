package domain

// DocumentType distinguishes invoices from quotes.
type DocumentType string

const (
	TypeInvoice DocumentType = "invoice"
	TypeQuote   DocumentType = "quote"
)

// ValidDocumentTypes enumerates the accepted document types.
var ValidDocumentTypes = map[DocumentType]bool{
	TypeInvoice: true,
	TypeQuote:   true,
}
