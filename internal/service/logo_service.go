package service

import (
	"bytes"
	"context"
	"log"

	"facturio/internal/domain"
	"facturio/internal/port"
)

const logoKey = "branding/logo"

// LogoService stores the company logo shown on rendered documents.
// Logo persistence is a non-critical path: storage failures are logged
// and surfaced but never break document operations.
type LogoService interface {
	SetLogo(ctx context.Context, data []byte, contentType string) error
	GetLogo(ctx context.Context) ([]byte, string, error)
	DeleteLogo(ctx context.Context) error
}

type logoService struct {
	storage port.ObjectStorage
	bucket  string
}

// NewLogoService creates a LogoService backed by object storage.
func NewLogoService(storage port.ObjectStorage, bucket string) LogoService {
	return &logoService{storage: storage, bucket: bucket}
}

func (s *logoService) SetLogo(ctx context.Context, data []byte, contentType string) error {
	err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         logoKey,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("logoService.SetLogo: upload failed: %v", err)
		return err
	}
	return nil
}

func (s *logoService) GetLogo(ctx context.Context) ([]byte, string, error) {
	data, contentType, err := s.storage.Download(ctx, s.bucket, logoKey)
	if err != nil {
		log.Printf("logoService.GetLogo: download failed: %v", err)
		return nil, "", domain.ErrLogoNotFound
	}
	return data, contentType, nil
}

func (s *logoService) DeleteLogo(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.bucket, logoKey); err != nil {
		log.Printf("logoService.DeleteLogo: delete failed: %v", err)
		return err
	}
	return nil
}
