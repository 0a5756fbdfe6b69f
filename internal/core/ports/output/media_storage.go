package ports

import (
	"context"

	"portfolio-service/internal/core/domain"
)

// MediaStorage persists an uploaded image or video and returns where it lives.
type MediaStorage interface {
	Kind() domain.StorageType

	// Store writes file. kind is already validated; mimeType is the sniffed
	// content type.
	Store(ctx context.Context, file domain.UploadFile, kind domain.MediaType, mimeType string) (*domain.StoredObject, error)
}
