package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage persists files to the local filesystem.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates a LocalStorage instance. The directory is
// created if it does not exist.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "data/media"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// LocalBaseDir returns the root directory used for storing files, so
// the router can serve it over HTTP.
func (s *LocalStorage) LocalBaseDir() string {
	return s.baseDir
}

func (s *LocalStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	relativePath := objectPath(opts)

	absPath := filepath.Join(s.baseDir, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return relativePath, nil
}

func (s *LocalStorage) Delete(ctx context.Context, relativePath string) error {
	if strings.TrimSpace(relativePath) == "" {
		return nil
	}
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(relativePath))
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return s.baseURL + "/" + relativePath
}

// objectPath builds "category/uuid.ext" for a new object.
func objectPath(opts SaveOptions) string {
	category := sanitizePathSegment(opts.Category)
	if category == "" {
		category = "misc"
	}
	ext := strings.TrimPrefix(strings.TrimSpace(opts.Extension), ".")
	if ext == "" {
		ext = "bin"
	}
	return path.Join(category, uuid.New().String()+"."+ext)
}

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 32)
		case ch == '-', ch == '_', ch == '/':
			builder.WriteByte(ch)
		}
	}
	return strings.Trim(builder.String(), "/")
}

var _ Storage = (*LocalStorage)(nil)
