// Package completion holds the completion services used to answer queries
// that have no local match.
package completion

import (
	"context"
	"fmt"

	"docsearch/internal/domain"
)

// Unavailable is used when no completion service is configured. Every call
// fails with domain.ErrCompletionUnavailable.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Complete(context.Context, string) (string, error) {
	if u.Reason == "" {
		return "", domain.ErrCompletionUnavailable
	}
	return "", fmt.Errorf("%w: %s", domain.ErrCompletionUnavailable, u.Reason)
}
