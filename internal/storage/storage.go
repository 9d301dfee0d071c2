package storage

import (
	"context"
	"fmt"
	"strings"

	"foodgram/config"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// SaveOptions controls how a media file is persisted. Category groups
// files on disk or under the bucket prefix ("users", "recipes");
// Extension is the preferred file extension without the leading dot.
type SaveOptions struct {
	Category  string
	Extension string
}

// Storage persists uploaded media and resolves public URLs for stored
// paths. Save returns a storage-relative path kept on the model row.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// New instantiates the configured storage backend.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageType)) {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir, cfg.StoragePublicBaseURL)
	case TypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
