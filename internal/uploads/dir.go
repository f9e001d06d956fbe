// Package uploads stores PDF attachments in a flat directory and validates
// incoming base64 payloads.
package uploads

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ResumeFilename is the fixed name of the uploaded resume.
const ResumeFilename = "resume.pdf"

// TempPrefix marks in-flight writes inside the upload directory.
const TempPrefix = ".upload-tmp-"

// ProjectFilename returns the attachment name for a project id.
func ProjectFilename(id int) string {
	return fmt.Sprintf("project%d.pdf", id)
}

// Dir is a flat directory of uploaded files.
type Dir struct {
	root string // absolute path
}

// NewDir returns a Dir rooted at root, creating it if needed.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("uploads: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: mkdir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("uploads: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("uploads: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory path.
func (d *Dir) Root() string {
	return d.root
}

// Path resolves a plain filename inside the directory. Names with path
// separators or traversal are rejected.
func (d *Dir) Path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("uploads: filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || cleaned == "." || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("uploads: invalid filename: %s", name)
	}
	abs := filepath.Join(d.root, cleaned)
	if !strings.HasPrefix(abs, d.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("uploads: path escapes upload directory: %s", name)
	}
	return abs, nil
}

// Write atomically stores data under name, replacing any existing file.
func (d *Dir) Write(name string, data []byte) error {
	abs, err := d.Path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.root, TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("uploads: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("uploads: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("uploads: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("uploads: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("uploads: chmod: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("uploads: rename: %w", err)
	}
	success = true
	return nil
}

// Read returns the contents of name.
func (d *Dir) Read(name string) ([]byte, error) {
	abs, err := d.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("uploads: read %s: %w", name, err)
	}
	return data, nil
}

// Remove deletes name. A missing file is not an error.
func (d *Dir) Remove(name string) error {
	abs, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("uploads: remove %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name is a readable regular file.
func (d *Dir) Exists(name string) bool {
	abs, err := d.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// List returns the names of all stored files, skipping in-flight temp files.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("uploads: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), TempPrefix) {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}
