package main

import (
	"fmt"
	"log"

	"facturio/internal/config"
	"facturio/internal/email/noop"
	"facturio/internal/email/ses"
	"facturio/internal/handler"
	"facturio/internal/numbering"
	"facturio/internal/port"
	"facturio/internal/repository/postgres"
	"facturio/internal/router"
	"facturio/internal/service"
	s3storage "facturio/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	counterRepo := postgres.NewCounterRepo(db)

	// Initialize numbering
	numberingCfg := numbering.Config{
		PrefixInvoice: cfg.Numbering.PrefixInvoice,
		PrefixQuote:   cfg.Numbering.PrefixQuote,
		IncludeMonth:  cfg.Numbering.IncludeMonth,
	}
	allocator := numbering.NewAllocator(counterRepo, numberingCfg)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	documentSvc := service.NewDocumentService(docRepo, allocator, emailSender)
	logoSvc := service.NewLogoService(s3Client, cfg.S3.Bucket)

	// Initialize handlers
	documentH := handler.NewDocumentHandler(documentSvc)
	numberingH := handler.NewNumberingHandler(allocator, numberingCfg)
	logoH := handler.NewLogoHandler(logoSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, documentH, numberingH, logoH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
