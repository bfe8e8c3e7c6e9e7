// server/internal/storage/cloudinary.go
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"foodbridge-api-server/config"
)

type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}

	folder := cfg.Folder
	if folder == "" {
		folder = "foodbridge"
	}

	return &CloudinaryUploader{client: cld, folder: folder}, nil
}

// UploadFile sends the file to Cloudinary and returns the secure URL.
// The content type is inferred by Cloudinary, so contentType is unused
// here.
func (u *CloudinaryUploader) UploadFile(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error) {
	resp, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   u.folder,
		PublicID: objectKey,
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}

	return resp.SecureURL, nil
}
