package router

import (
	"github.com/gin-gonic/gin"

	"facturio/internal/config"
	"facturio/internal/handler"
	"facturio/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	documentH *handler.DocumentHandler,
	numberingH *handler.NumberingHandler,
	logoH *handler.LogoHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Document lifecycle
	docs := v1.Group("/documents")
	docs.GET("", documentH.List)
	docs.POST("", documentH.Create)
	docs.GET("/export", documentH.ExportAll)
	docs.POST("/duplicates", documentH.FindDuplicates)
	docs.POST("/import", documentH.Import)
	docs.POST("/import/:id/confirm", documentH.ConfirmImport)
	docs.GET("/:id", documentH.GetByID)
	docs.PUT("/:id", documentH.Update)
	docs.DELETE("/:id", documentH.Delete)
	docs.POST("/:id/convert", documentH.Convert)
	docs.GET("/:id/export", documentH.ExportJSON)
	docs.POST("/:id/send", documentH.SendByEmail)

	// Numbering state
	v1.GET("/numbering", numberingH.Get)

	// Settings
	settings := v1.Group("/settings")
	settings.GET("/logo", logoH.Get)
	settings.PUT("/logo", logoH.Upload)
	settings.DELETE("/logo", logoH.Delete)

	return r
}
