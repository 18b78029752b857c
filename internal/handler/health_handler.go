package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "facturio"})
}

// Readiness handles GET /readyz
// The probe queries the numbering counter table instead of pinging: a
// reachable database without the schema applied is not ready to issue
// document numbers.
func (h *HealthHandler) Readiness(c *gin.Context) {
	var buckets int
	err := h.db.GetContext(c.Request.Context(), &buckets,
		"SELECT COUNT(*) FROM document_counters")
	if err != nil {
		log.Printf("healthHandler.Readiness: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "counterBuckets": buckets})
}
