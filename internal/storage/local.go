package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a directory on disk
type Local struct {
	root string
}

// NewLocal returns a Local rooted at dir, creating it if needed
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("storage directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &Local{root: dir}, nil
}

func (l *Local) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.root, clean), nil
}

// Save writes body to the file of key
func (l *Local) Save(_ context.Context, key, _ string, body io.Reader) error {
	name, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file %s: %w", key, err)
	}
	return f.Close()
}

// Open returns the file of key
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	name, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the file of key. A missing file is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	name, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}
