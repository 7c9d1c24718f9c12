// Package fs stores documents as plain-text files in a single folder. The
// document id is the file name without its extension.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"docsearch/internal/domain"
)

// DefaultExtension is used when no extension is configured.
const DefaultExtension = ".txt"

// Store reads and writes documents under dir.
type Store struct {
	dir string
	ext string
}

// NewStore creates a store for dir. Only files ending in ext are documents.
func NewStore(dir, ext string) *Store {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Store{dir: dir, ext: ext}
}

// Dir returns the folder backing the store.
func (s *Store) Dir() string { return s.dir }

// ListDocuments reads every document in the folder, ordered by id. A missing
// or unreadable folder is reported as domain.ErrSourceUnavailable; per-file
// read failures are collected and returned together.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, s.dir, err)
	}
	var (
		docs []domain.Document
		errs error
	)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != s.ext {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("reading %s: %w", e.Name(), err))
			continue
		}
		id := strings.TrimSuffix(e.Name(), s.ext)
		docs = append(docs, domain.Document{ID: id, Content: string(data)})
	}
	if errs != nil {
		return nil, errs
	}
	return docs, nil
}

// Persist writes text as the document id, replacing any existing file.
func (s *Store) Persist(_ context.Context, id, text string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path(id), []byte(text), 0o644)
}

// Read returns the text of document id.
func (s *Store) Read(_ context.Context, id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", domain.ErrDocumentNotFound, id)
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		return "", err
	}
	return string(data), nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+s.ext)
}
