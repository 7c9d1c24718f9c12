// Package engine coordinates the inverted index, the query history stacks and
// fallback ingestion behind a single query engine.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"docsearch/internal/domain"
	"docsearch/internal/fallback"
	"docsearch/internal/history"
	"docsearch/internal/index"
	"docsearch/internal/metrics"
)

// FallbackScore is the fixed score of a synthetic fallback result.
const FallbackScore = 1

// Status reports whether a navigation did anything.
type Status int

const (
	StatusOK Status = iota
	StatusNothingToGoBack
	StatusNothingToRedo
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNothingToGoBack:
		return "nothing to go back to"
	case StatusNothingToRedo:
		return "nothing to redo"
	default:
		return "unknown"
	}
}

// Outcome is the result of a search or navigation.
type Outcome struct {
	Status   Status
	Query    string
	Results  []domain.SearchResult
	Fallback bool
}

// Store is the document folder the engine reads from and writes to.
type Store interface {
	domain.DocumentSource
	domain.DocumentSink
	domain.DocumentReader
}

// Engine owns the index, history, redo stack and fallback counter. It is not
// safe for concurrent use.
type Engine struct {
	store     Store
	completer domain.CompletionService
	index     *index.Inverted
	history   history.Stack[string]
	redo      history.Stack[string]
	ingestor  *fallback.Ingestor
	metrics   *metrics.Metrics
	logger    *logrus.Entry
}

// New creates an engine with an empty index.
func New(store Store, completer domain.CompletionService, m *metrics.Metrics, logger *logrus.Entry) *Engine {
	e := &Engine{
		store:     store,
		completer: completer,
		index:     index.NewInverted(),
		metrics:   m,
		logger:    logger.WithField("component", "engine"),
	}
	e.ingestor = fallback.NewIngestor(completer, store, e.index, m, logger, 1)
	return e
}

// LoadDocuments indexes every document from the store and seeds the fallback
// counter past any generated documents found. It returns the number of
// documents loaded.
func (e *Engine) LoadDocuments(ctx context.Context) (int, error) {
	docs, err := e.store.ListDocuments(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading documents: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		e.index.AddDocument(d.ID, d.Content)
		ids = append(ids, d.ID)
	}
	next := fallback.NextCounter(ids)
	if next < e.ingestor.Next() {
		next = e.ingestor.Next()
	}
	e.ingestor = fallback.NewIngestor(e.completer, e.store, e.index, e.metrics, e.logger, next)
	e.metrics.IndexedDocuments.Set(float64(e.index.DocumentCount()))

	if len(docs) == 0 {
		e.logger.Warn("no documents found")
	}
	e.logger.WithFields(logrus.Fields{
		"documents":     len(docs),
		"terms":         e.index.TermCount(),
		"next_fallback": next,
	}).Info("index built")
	return len(docs), nil
}

// Search runs a new forward query. It records the query in history, discards
// pending redo entries, and falls back to the completion service when nothing
// matches locally.
func (e *Engine) Search(ctx context.Context, query string) Outcome {
	start := time.Now()
	defer func() { e.metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	e.history.Push(query)
	e.redo.Clear()

	results := e.index.Search(query)
	if len(results) > 0 {
		e.metrics.SearchesTotal.WithLabelValues("hit").Inc()
		e.logger.WithFields(logrus.Fields{"query": query, "results": len(results)}).Debug("search")
		return Outcome{Status: StatusOK, Query: query, Results: results}
	}

	id := e.ingestor.Ingest(ctx, query)
	e.metrics.SearchesTotal.WithLabelValues("fallback").Inc()
	e.metrics.IndexedDocuments.Set(float64(e.index.DocumentCount()))
	return Outcome{
		Status:   StatusOK,
		Query:    query,
		Results:  []domain.SearchResult{{DocumentID: id, Score: FallbackScore}},
		Fallback: true,
	}
}

// GoBack returns to the previous query, moving the current one onto the redo
// stack. The first query of the session cannot be backed out of.
func (e *Engine) GoBack() Outcome {
	if e.history.Len() < 2 {
		e.metrics.NavigationsTotal.WithLabelValues("back", StatusNothingToGoBack.String()).Inc()
		return Outcome{Status: StatusNothingToGoBack}
	}
	current, _ := e.history.Pop()
	e.redo.Push(current)
	prev, _ := e.history.Peek()

	e.metrics.NavigationsTotal.WithLabelValues("back", StatusOK.String()).Inc()
	e.logger.WithFields(logrus.Fields{"from": current, "to": prev}).Debug("back")
	return Outcome{Status: StatusOK, Query: prev, Results: e.index.Search(prev)}
}

// GoForward re-applies the most recently undone query.
func (e *Engine) GoForward() Outcome {
	q, ok := e.redo.Pop()
	if !ok {
		e.metrics.NavigationsTotal.WithLabelValues("forward", StatusNothingToRedo.String()).Inc()
		return Outcome{Status: StatusNothingToRedo}
	}
	e.history.Push(q)

	e.metrics.NavigationsTotal.WithLabelValues("forward", StatusOK.String()).Inc()
	e.logger.WithField("to", q).Debug("forward")
	return Outcome{Status: StatusOK, Query: q, Results: e.index.Search(q)}
}

// ShowHistory lists past queries, most recent first.
func (e *Engine) ShowHistory() []string {
	return e.history.Inspect()
}

// PendingRedo lists the queries GoForward would restore, next one first.
func (e *Engine) PendingRedo() []string {
	return e.redo.Inspect()
}

// Open returns the full text of a result document.
func (e *Engine) Open(ctx context.Context, id string) (string, error) {
	text, err := e.store.Read(ctx, id)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", id, err)
	}
	return text, nil
}

// DocumentCount is the number of indexed documents.
func (e *Engine) DocumentCount() int {
	return e.index.DocumentCount()
}
