package handler

import (
	"log"

	"github.com/gin-gonic/gin"

	"facturio/internal/domain"
	"facturio/internal/numbering"
)

// NumberingHandler exposes the document numbering state.
type NumberingHandler struct {
	allocator *numbering.Allocator
	cfg       numbering.Config
}

// NewNumberingHandler creates a new NumberingHandler.
func NewNumberingHandler(allocator *numbering.Allocator, cfg numbering.Config) *NumberingHandler {
	return &NumberingHandler{allocator: allocator, cfg: cfg}
}

// Get handles GET /api/v1/numbering
// Returns the numbering configuration and the last issued number per
// document type. Reading never advances a counter.
func (h *NumberingHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	lastInvoice, err := h.allocator.LastIssuedNumber(ctx, domain.TypeInvoice)
	if err != nil {
		log.Printf("numberingHandler.Get: %v", err)
		HandleError(c, err)
		return
	}
	lastQuote, err := h.allocator.LastIssuedNumber(ctx, domain.TypeQuote)
	if err != nil {
		log.Printf("numberingHandler.Get: %v", err)
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"prefixInvoice": h.cfg.PrefixInvoice,
		"prefixQuote":   h.cfg.PrefixQuote,
		"includeMonth":  h.cfg.IncludeMonth,
		"lastInvoice":   lastInvoice,
		"lastQuote":     lastQuote,
	})
}
