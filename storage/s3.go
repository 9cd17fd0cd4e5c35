package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Options struct {
	Bucket   string
	Region   string
	Endpoint string // empty for AWS, set for S3 compatible services
	Key      string
	Secret   string
}

type S3Storage struct {
	options  S3Options
	s3Client *s3.S3
	uploader *s3manager.Uploader
}

func NewS3Storage(options S3Options) (*S3Storage, error) {
	if options.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}
	cfg := aws.NewConfig().WithRegion(options.Region)
	if options.Key != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(options.Key, options.Secret, ""))
	}
	if options.Endpoint != "" {
		cfg = cfg.WithEndpoint(options.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	client := s3.New(sess)
	return &S3Storage{
		options:  options,
		s3Client: client,
		uploader: s3manager.NewUploaderWithClient(client),
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, path string, reader io.Reader, _ int64, contentType string) (string, error) {
	input := s3manager.UploadInput{
		Bucket:      &s.options.Bucket,
		Key:         aws.String(path),
		ContentType: &contentType,
		Body:        reader,
	}
	if _, err := s.uploader.UploadWithContext(ctx, &input); err != nil {
		return "", err
	}
	return s.objectURL(path), nil
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: &s.options.Bucket,
		Key:    aws.String(path),
	})
	return err
}

func (s *S3Storage) objectURL(path string) string {
	if s.options.Endpoint != "" {
		return strings.TrimSuffix(s.options.Endpoint, "/") + "/" + s.options.Bucket + "/" + path
	}
	return "https://" + s.options.Bucket + ".s3." + s.options.Region + ".amazonaws.com/" + path
}
