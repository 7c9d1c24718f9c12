package domain

import (
	"context"
	"errors"
)

var (
	// ErrSourceUnavailable is returned when the document folder cannot be listed.
	ErrSourceUnavailable = errors.New("document source unavailable")
	// ErrDocumentNotFound is returned when a document id has no backing text.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrCompletionUnavailable is returned by completion services that cannot answer.
	ErrCompletionUnavailable = errors.New("completion service unavailable")
)

// Document represents a single text document loaded into the system.
type Document struct {
	ID      string
	Content string
}

// SearchResult is a matching document with its term-frequency score.
type SearchResult struct {
	DocumentID string
	Score      int
}

// DocumentSource supplies the initial corpus.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]Document, error)
}

// DocumentSink persists generated documents so they survive restarts.
type DocumentSink interface {
	Persist(ctx context.Context, id, text string) error
}

// DocumentReader returns the full text of a document for display.
type DocumentReader interface {
	Read(ctx context.Context, id string) (string, error)
}

// CompletionService answers a free-text prompt.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
