// server/internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"io"

	"foodbridge-api-server/config"
)

// Uploader stores donation media and pickup proofs, returning a durable
// public URL. Uploads happen before the transaction that records the
// URL; a failed upload fails the whole user action.
type Uploader interface {
	UploadFile(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error)
}

// New selects the configured provider.
func New(cfg config.Config) (Uploader, error) {
	switch cfg.Storage.Provider {
	case "s3":
		return NewS3Uploader(cfg.S3)
	case "cloudinary", "":
		return NewCloudinaryUploader(cfg.Cloudinary)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}
