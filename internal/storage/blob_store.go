package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"atelier-catalog/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// BlobStore is the narrow blob-collection capability the product
// pipeline uses for image cleanup and pass-through uploads.
type BlobStore interface {
	Remove(ctx context.Context, paths []string) error
	Upload(ctx context.Context, path string, contentType string, body io.Reader) (string, error)
}

type s3BlobStore struct {
	client    *s3.S3
	bucket    string
	publicURL string
}

// NewS3BlobStore creates a BlobStore backed by an S3-compatible object
// store (the hosted storage service exposes an S3 endpoint).
func NewS3BlobStore(cfg config.StorageConfig) (BlobStore, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("storage configuration missing")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Endpoint:         aws.String(cfg.Endpoint),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	return &s3BlobStore{
		client:    s3.New(sess),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Remove deletes the given object paths from the bucket in one call
func (s *s3BlobStore) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(paths))
	for _, path := range paths {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(path)})
	}

	_, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to remove objects from storage: %w", err)
	}

	return nil
}

// Upload streams the body as-is to the bucket and returns the public
// URL the object is served from. No image processing happens here.
func (s *s3BlobStore) Upload(ctx context.Context, path string, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to storage: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, path), nil
}
