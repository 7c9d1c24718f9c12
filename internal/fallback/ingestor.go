// Package fallback turns completion answers for unmatched queries into
// indexed, persisted documents.
package fallback

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"

	"docsearch/internal/domain"
	"docsearch/internal/metrics"
)

// IDPrefix prefixes the id of every generated document.
const IDPrefix = "gpt_"

var idPattern = regexp.MustCompile(`^` + IDPrefix + `(\d+)$`)

// DocumentAdder receives generated documents.
type DocumentAdder interface {
	AddDocument(id, text string)
}

// Ingestor allocates gpt_<n> ids from a monotonic counter.
type Ingestor struct {
	completer domain.CompletionService
	sink      domain.DocumentSink
	index     DocumentAdder
	metrics   *metrics.Metrics
	logger    *logrus.Entry
	next      int
}

// NewIngestor creates an ingestor whose first document will be gpt_<next>.
// A next value below 1 is treated as 1.
func NewIngestor(completer domain.CompletionService, sink domain.DocumentSink, index DocumentAdder, m *metrics.Metrics, logger *logrus.Entry, next int) *Ingestor {
	if next < 1 {
		next = 1
	}
	return &Ingestor{
		completer: completer,
		sink:      sink,
		index:     index,
		metrics:   m,
		logger:    logger.WithField("component", "fallback"),
		next:      next,
	}
}

// Next returns the counter value the next document will use.
func (in *Ingestor) Next() int { return in.next }

// Ingest asks the completion service about query and stores the answer as a
// new document, returning its id. A failed completion is stored as an error
// description instead of being returned.
func (in *Ingestor) Ingest(ctx context.Context, query string) string {
	answer, err := in.completer.Complete(ctx, query)
	if err != nil {
		in.metrics.CompletionErrorsTotal.Inc()
		in.logger.WithField("err", err).Warn("completion failed, storing error text")
		answer = fmt.Sprintf("Error: could not get an answer for %q: %v", query, err)
	}

	id := IDPrefix + strconv.Itoa(in.next)
	in.next++

	if err := in.sink.Persist(ctx, id, answer); err != nil {
		in.metrics.PersistErrorsTotal.Inc()
		in.logger.WithFields(logrus.Fields{"id": id, "err": err}).Error("persisting fallback document failed")
	}
	in.index.AddDocument(id, answer)
	in.metrics.FallbackDocsTotal.Inc()
	in.logger.WithFields(logrus.Fields{"id": id, "query": query}).Info("fallback document created")
	return id
}

// NextCounter returns one more than the largest n among ids of the form
// gpt_<n>, or 1 when there are none.
func NextCounter(ids []string) int {
	max := 0
	for _, id := range ids {
		m := idPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}
