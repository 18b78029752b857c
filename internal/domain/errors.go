package domain

import "errors"

var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrInvalidDocumentType   = errors.New("invalid document type")
	ErrInvalidImportPayload  = errors.New("import payload is not valid JSON")
	ErrNoImportableDocuments = errors.New("no valid documents in import payload")
	ErrPendingImportNotFound = errors.New("pending import not found")
	ErrLogoNotFound          = errors.New("no logo stored")
)
