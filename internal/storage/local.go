package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads to a directory on disk.
//
// The server serves the same directory read-only under /uploads/, so the
// returned URL is "<baseURL>/uploads/<name>".
type LocalStore struct {
	dir     string
	baseURL string
}

var _ FileStore = (*LocalStore)(nil)

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating upload dir %s: %w", dir, err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the file and returns its public URL.
//
// The name is sanitized with filepath.Base — a crafted "../../etc/x" name
// must not escape the upload directory.
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	name = filepath.Base(name)

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storage: creating %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("storage: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: closing %s: %w", path, err)
	}

	return s.baseURL + "/uploads/" + name, nil
}
