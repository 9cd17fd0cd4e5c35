package storage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	client   *minio.Client
	endpoint string
	bucket   string
	secure   bool
}

func NewMinioStorage(endpoint, accessKeyID, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorage{client: client, endpoint: endpoint, bucket: bucket, secure: useSSL}, nil
}

func (s *MinioStorage) Save(ctx context.Context, path string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	scheme := "http://"
	if s.secure {
		scheme = "https://"
	}
	return scheme + s.endpoint + "/" + s.bucket + "/" + path, nil
}

func (s *MinioStorage) Delete(ctx context.Context, path string) error {
	return s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
}
