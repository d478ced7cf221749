package repository

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore writes uploaded images under a directory.
type ImageStore struct {
	dir string
}

// NewImageStore returns an ImageStore rooted at dir.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

// Save writes data under a fresh name and returns the stored path. The
// extension comes from the original name, falling back to mediaType.
func (s *ImageStore) Save(name, mediaType string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.dir, uuid.NewString()+extension(name, mediaType))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}

func extension(name, mediaType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
