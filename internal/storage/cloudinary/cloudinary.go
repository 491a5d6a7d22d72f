// Package cloudinary stores post photos and group covers in Cloudinary.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

type PhotoStorage struct {
	cld *cloudinary.Cloudinary
}

// New builds a photo storage from a CLOUDINARY_URL style connection string.
func New(cloudinaryURL string) (*PhotoStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &PhotoStorage{cld: cld}, nil
}

// Upload stores the image under the given key and returns its delivery URL.
func (p *PhotoStorage) Upload(ctx context.Context, key string, file io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	overwrite := true
	result, err := p.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:  key,
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", result.Error.Message)
	}
	zap.S().Debugw("image uploaded", "key", key, "bytes", result.Bytes)
	return result.SecureURL, nil
}

// Delete removes the stored image. A missing asset is not an error so that
// post deletion stays idempotent.
func (p *PhotoStorage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	result, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("failed to delete image: %s", result.Result)
	}
	return nil
}
