package storage

import (
	"context"
	"feedserver/config"
	"fmt"
	"io"
	"log/slog"
)

const (
	StorageTypeDisk  = "disk"
	StorageTypeS3    = "s3"
	StorageTypeMinio = "minio"
)

// ImageStore keeps post images. Save returns the URL the image is served from
type ImageStore interface {
	Save(ctx context.Context, path string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// NewFromConfig builds the store selected by MEDIA_STORAGE
func NewFromConfig() (ImageStore, error) {
	slog.Info("image storage", "type", config.MEDIA_STORAGE)
	switch config.MEDIA_STORAGE {
	case StorageTypeDisk:
		return NewDiskStorage(config.MEDIA_DIR, config.MEDIA_URL), nil
	case StorageTypeS3:
		return NewS3Storage(S3Options{
			Bucket:   config.S3_BUCKET,
			Region:   config.S3_REGION,
			Endpoint: config.S3_ENDPOINT,
			Key:      config.S3_KEY,
			Secret:   config.S3_SECRET,
		})
	case StorageTypeMinio:
		return NewMinioStorage(config.MINIO_ENDPOINT, config.MINIO_KEY, config.MINIO_SECRET, config.MINIO_BUCKET, config.MINIO_SSL)
	}
	return nil, fmt.Errorf("storage type %q unavailable", config.MEDIA_STORAGE)
}
