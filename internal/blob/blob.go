// Package blob stores exported artifacts on the local filesystem or in an
// S3-compatible bucket.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/tbrite/internal/config"
)

// Store persists an artifact under key and returns where it can be found.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// New picks a driver from cfg. An empty driver means the filesystem.
func New(cfg config.BlobConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "fs":
		return NewFS(cfg.BasePath), nil
	case "minio":
		return NewMinio(cfg.Minio)
	default:
		return nil, fmt.Errorf("blob: unsupported driver %q", cfg.Driver)
	}
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.ReplaceAll(key, "\\", "/"), "/")
	if key == "" {
		return "", fmt.Errorf("blob: empty key")
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("blob: key %q escapes the store", key)
		}
	}
	return key, nil
}
