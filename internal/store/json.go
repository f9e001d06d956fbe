package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// TempPrefix prefixes the temporary files created during atomic writes.
const TempPrefix = ".folio-tmp-"

// JSONFile stores the document as a pretty-printed JSON file.
type JSONFile struct {
	path string
}

// NewJSONFile returns a store backed by the file at path.
// The parent directory is created if needed.
func NewJSONFile(path string) (*JSONFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("store: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}
	return &JSONFile{path: abs}, nil
}

// Path returns the absolute path of the data file.
func (s *JSONFile) Path() string {
	return s.path
}

// Load reads and decodes the data file.
func (s *JSONFile) Load(_ context.Context) (*models.ContentDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	return decode(data)
}

// UpdatedAt returns the modification time of the data file.
func (s *JSONFile) UpdatedAt(_ context.Context) (time.Time, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, apperr.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("store: stat %s: %w", s.path, err)
	}
	return fi.ModTime(), nil
}

// Save atomically writes the document: tmp file → fsync → rename.
func (s *JSONFile) Save(_ context.Context, doc *models.ContentDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	return writeAtomic(s.path, append(data, '\n'))
}

func decode(data []byte) (*models.ContentDocument, error) {
	var doc models.ContentDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrCorrupt, err)
	}
	return &doc, nil
}

func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}
