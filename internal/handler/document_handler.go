package handler

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"facturio/internal/domain"
	"facturio/internal/export"
	"facturio/internal/service"
)

// maxImportSize caps the accepted import payload at 10 MB.
const maxImportSize = 10 << 20

// DocumentHandler handles document lifecycle endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	if docType := c.Query("type"); docType != "" {
		filtered := make([]domain.Document, 0, len(docs))
		for _, d := range docs {
			if string(d.DocumentType) == docType {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}

	RespondOK(c, docs)
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Create handles POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var doc domain.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body is not a valid document")
		return
	}

	created, err := h.documentService.Create(c.Request.Context(), &doc)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, created)
}

// Update handles PUT /api/v1/documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	var doc domain.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body is not a valid document")
		return
	}
	doc.ID = id

	if err := h.documentService.Save(c.Request.Context(), &doc); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	if err := h.documentService.Remove(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": id})
}

// Convert handles POST /api/v1/documents/:id/convert
// Converts a quote into an invoice and returns the new invoice.
func (h *DocumentHandler) Convert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	invoice, err := h.documentService.ConvertQuoteToInvoice(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, invoice)
}

// FindDuplicates handles POST /api/v1/documents/duplicates
// Runs the similarity matcher for a candidate document against the
// stored collection.
func (h *DocumentHandler) FindDuplicates(c *gin.Context) {
	var doc domain.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body is not a valid document")
		return
	}

	pairs, err := h.documentService.FindDuplicates(c.Request.Context(), &doc)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, pairs)
}

// Import handles POST /api/v1/documents/import
// Accepts a JSON payload holding one document or an array of them.
// With check_duplicates=true (default), records matching existing
// documents are held back as pending until confirmed.
func (h *DocumentHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return
	}

	checkDuplicates := c.DefaultQuery("check_duplicates", "true") != "false"

	result, err := h.documentService.ImportJSON(c.Request.Context(), raw, checkDuplicates)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// ConfirmImport handles POST /api/v1/documents/import/:id/confirm
// Persists a pending import held back by the duplicate check.
func (h *DocumentHandler) ConfirmImport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid pending import ID")
		return
	}

	doc, err := h.documentService.ConfirmImport(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// ExportJSON handles GET /api/v1/documents/:id/export
func (h *DocumentHandler) ExportJSON(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	data, filename, err := h.documentService.ExportJSON(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// ExportAll handles GET /api/v1/documents/export
// Exports the collection as JSON, CSV, or XLSX depending on the format
// query parameter. An optional type parameter filters by document type.
func (h *DocumentHandler) ExportAll(c *gin.Context) {
	docType := c.Query("type")

	switch c.DefaultQuery("format", "json") {
	case "json":
		data, filename, err := h.documentService.ExportAllJSON(c.Request.Context(), docType)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/json", data)

	case "csv":
		docs, err := h.listFiltered(c, docType)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="documents.csv"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		_, _ = c.Writer.Write(export.BOM)
		w := export.NewWriter(c.Writer)
		writeErr := w.WriteHeader()
		if writeErr == nil {
			writeErr = w.WriteDocuments(docs)
		}
		w.Flush()
		if writeErr == nil {
			writeErr = w.Error()
		}
		if writeErr != nil {
			requestID, _ := c.Get("request_id")
			log.Printf("[%v] csv export failed: %v", requestID, writeErr)
		}

	case "xlsx":
		docs, err := h.listFiltered(c, docType)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="documents.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := export.WriteXLSX(c.Writer, docs); err != nil {
			requestID, _ := c.Get("request_id")
			log.Printf("[%v] xlsx export failed: %v", requestID, err)
		}

	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be 'json', 'csv', or 'xlsx'")
	}
}

// SendByEmail handles POST /api/v1/documents/:id/send
func (h *DocumentHandler) SendByEmail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	var req struct {
		To      string `json:"to" binding:"required,email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "a valid recipient email address is required")
		return
	}

	if err := h.documentService.SendByEmail(c.Request.Context(), id, req.To, req.Subject, req.Message); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"sent": true})
}

func (h *DocumentHandler) listFiltered(c *gin.Context, docType string) ([]domain.Document, error) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		return nil, err
	}
	if docType == "" {
		return docs, nil
	}
	filtered := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if string(d.DocumentType) == docType {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}
