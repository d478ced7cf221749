package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/postdeck/postdeck-go/internal/model"
)

// jsonFile is a JSON array on disk. A missing or empty file reads as no
// records. Writes replace the file atomically.
type jsonFile[T any] struct {
	mu   sync.Mutex
	path string
}

func (f *jsonFile[T]) load() ([]T, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return records, nil
}

func (f *jsonFile[T]) save(records []T) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if records == nil {
		records = []T{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

// JSONUserStore keeps users in a JSON file.
type JSONUserStore struct {
	file jsonFile[model.User]
}

// NewJSONUserStore returns a store backed by path.
func NewJSONUserStore(path string) *JSONUserStore {
	return &JSONUserStore{file: jsonFile[model.User]{path: path}}
}

// Create appends user unless the username is taken.
func (s *JSONUserStore) Create(_ context.Context, user *model.User) error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	users, err := s.file.load()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}
	return s.file.save(append(users, *user))
}

// GetByUsername returns the first user with username.
func (s *JSONUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	users, err := s.file.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// JSONPostStore keeps posts in a JSON file.
type JSONPostStore struct {
	file jsonFile[model.Post]
}

// NewJSONPostStore returns a store backed by path.
func NewJSONPostStore(path string) *JSONPostStore {
	return &JSONPostStore{file: jsonFile[model.Post]{path: path}}
}

func (s *JSONPostStore) Create(_ context.Context, post *model.Post) error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	posts, err := s.file.load()
	if err != nil {
		return err
	}
	return s.file.save(append(posts, *post))
}

// List returns posts newest first.
func (s *JSONPostStore) List(_ context.Context) ([]model.Post, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	posts, err := s.file.load()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
	return posts, nil
}
