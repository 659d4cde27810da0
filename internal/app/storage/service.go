/*
Package storage publishes files to S3-compatible object storage.
*/
package storage

import (
	"context"
	"io"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService is the subset of object storage the bundle publisher needs.
type StorageService interface {
	// Upload stores body under key with the given content type.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// PresignDownload generates a pre-signed URL for downloading key.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)
}

// NewStorageService returns the S3-compatible implementation for cfg.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	return newS3Client(ctx, cfg)
}
