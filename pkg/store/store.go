// Package store persists the shayari collection as a formatted JSON file.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
)

// FileStore keeps the collection in a single JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a store for the given file path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the collection, a missing file gives an empty collection
func (s *FileStore) Load() (*domain.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewCollection(), nil
		}
		return nil, fmt.Errorf("read collection: %w", err)
	}

	var c domain.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", s.path, err)
	}
	return &c, nil
}

// Save writes the collection with two-space indentation. Data goes to a temp file first
// and is renamed over the target, so readers never see a partial file.
func (s *FileStore) Save(c *domain.Collection) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // collection is public content
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace collection: %w", err)
	}
	return nil
}
