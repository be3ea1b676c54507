// Package storage stores uploaded product images and the digital goods that
// are attached to receipt emails.
//
// Two drivers exist: "local" (default) writes under STORAGE_LOCAL_ROOT, and
// "s3" talks to any S3-compatible bucket (AWS, MinIO, R2).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gin-bytemarket/config"
)

// ErrNotExist is returned by Get when nothing is stored at the path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is implemented by every storage driver. Paths are slash separated
// and relative to the disk root.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader) error
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// New returns the disk selected by STORAGE_DISK.
func New(ctx context.Context) (Disk, error) {
	switch driver := config.Get("STORAGE_DISK", "local"); driver {
	case "local":
		return NewLocalDisk(config.Get("STORAGE_LOCAL_ROOT", "storage"), config.Get("STORAGE_URL", "/storage")), nil
	case "s3":
		return NewS3Disk(ctx, S3Options{
			Bucket:   config.Get("S3_BUCKET", ""),
			Region:   config.Get("S3_REGION", "us-east-1"),
			Key:      config.Get("S3_KEY", ""),
			Secret:   config.Get("S3_SECRET", ""),
			Endpoint: config.Get("S3_ENDPOINT", ""),
			BaseURL:  config.Get("S3_URL", ""),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", driver)
	}
}
