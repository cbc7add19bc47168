// Package storage stores uploaded files on a local directory or an
// S3-compatible bucket (AWS S3, MinIO, R2, Spaces) behind one interface.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	// Delete removes path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// URL returns the public URL for path.
	URL(path string) string
}

// Server is implemented by disks that can serve their own files over HTTP.
type Server interface {
	Handler() http.Handler
}

// Config selects and configures a disk.
type Config struct {
	Driver string // "local" | "s3"

	LocalRoot string
	LocalURL  string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

// New builds the disk named by cfg.Driver.
func New(ctx context.Context, cfg Config) (Disk, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.LocalRoot, cfg.LocalURL)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown disk driver %q", cfg.Driver)
	}
}
