package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"foodgram/internal/storage"
)

// ImageService decodes inline base64 image payloads and persists them
// through the configured storage backend.
type ImageService struct {
	storage  storage.Storage
	maxBytes int64
}

func NewImageService(store storage.Storage, maxBytes int64) *ImageService {
	return &ImageService{
		storage:  store,
		maxBytes: maxBytes,
	}
}

// SaveBase64 decodes a data-URI (or bare base64) image payload and
// stores it under the given category. Returns the storage-relative path.
func (s *ImageService) SaveBase64(ctx context.Context, payload, category string) (string, error) {
	data, ext, err := decodeImagePayload(payload)
	if err != nil {
		return "", err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", ErrImageTooBig
	}

	return s.storage.Save(ctx, data, storage.SaveOptions{
		Category:  category,
		Extension: ext,
	})
}

// Delete removes a previously stored image. A blank path is a no-op.
func (s *ImageService) Delete(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// URL resolves the public URL of a stored image.
func (s *ImageService) URL(path string) string {
	return s.storage.URL(path)
}

// decodeImagePayload accepts "data:image/png;base64,..." or a bare
// base64 string and returns the bytes with a sniffed file extension.
func decodeImagePayload(payload string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, "", ErrInvalidImage
	}

	if strings.HasPrefix(trimmed, "data:") {
		idx := strings.Index(trimmed, ";base64,")
		if idx < 0 {
			return nil, "", ErrInvalidImage
		}
		trimmed = trimmed[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(trimmed))
	if err != nil {
		return nil, "", ErrInvalidImage
	}

	ext := extensionForContentType(http.DetectContentType(data))
	if ext == "" {
		return nil, "", ErrInvalidImage
	}

	return data, ext, nil
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	default:
		return ""
	}
}
