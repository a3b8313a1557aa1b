package repositories

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"airline-dashboard/internal/utils"
)

// InvoiceFileStore is the backing store of invoice PDFs, keyed by file name.
type InvoiceFileStore interface {
	Exists(name string) bool
	Read(name string) ([]byte, error)
}

// DirFileStore serves files from a single directory. Names with path parts
// are treated as absent.
type DirFileStore struct {
	Dir string
}

func (s DirFileStore) path(name string) (string, bool) {
	if !utils.SafeFilename(name) {
		return "", false
	}
	return filepath.Join(s.Dir, name), true
}

func (s DirFileStore) Exists(name string) bool {
	p, ok := s.path(name)
	if !ok {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func (s DirFileStore) Read(name string) ([]byte, error) {
	p, ok := s.path(name)
	if !ok {
		return nil, fmt.Errorf("invoice file %q: %w", name, fs.ErrNotExist)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("invoice file %q: %w", name, err)
	}
	return b, nil
}

// Write stores content under name, creating the directory when needed.
func (s DirFileStore) Write(name string, content []byte) error {
	p, ok := s.path(name)
	if !ok {
		return fmt.Errorf("invalid invoice file name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create invoice dir: %w", err)
	}
	return os.WriteFile(p, content, 0o644)
}
