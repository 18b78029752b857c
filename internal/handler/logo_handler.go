package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"facturio/internal/service"
)

// maxLogoSize caps logo uploads at 2 MB.
const maxLogoSize = 2 << 20

var allowedLogoTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/svg+xml": true,
	"image/webp":    true,
}

// LogoHandler handles company logo endpoints.
type LogoHandler struct {
	logoService service.LogoService
}

// NewLogoHandler creates a new LogoHandler.
func NewLogoHandler(logoService service.LogoService) *LogoHandler {
	return &LogoHandler{logoService: logoService}
}

// Upload handles PUT /api/v1/settings/logo
// The request body is the raw image; Content-Type identifies the format.
func (h *LogoHandler) Upload(c *gin.Context) {
	contentType := c.ContentType()
	if !allowedLogoTypes[contentType] {
		RespondError(c, http.StatusBadRequest, "UNSUPPORTED_IMAGE_TYPE", "logo must be png, jpeg, svg, or webp")
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLogoSize+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return
	}
	if len(data) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "empty logo upload")
		return
	}
	if len(data) > maxLogoSize {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "logo exceeds maximum allowed size")
		return
	}

	if err := h.logoService.SetLogo(c.Request.Context(), data, contentType); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"uploaded": true})
}

// Get handles GET /api/v1/settings/logo
func (h *LogoHandler) Get(c *gin.Context) {
	data, contentType, err := h.logoService.GetLogo(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}

// Delete handles DELETE /api/v1/settings/logo
func (h *LogoHandler) Delete(c *gin.Context) {
	if err := h.logoService.DeleteLogo(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
