// Package cache memoizes completion answers so repeated fallback queries do
// not hit the completion service twice.
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"docsearch/internal/domain"
)

const keyPrefix = "completion:"

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is a string key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Completer wraps a completion service with a cache. Only successful answers
// are cached; store failures are logged and treated as misses.
type Completer struct {
	next   domain.CompletionService
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *logrus.Entry
}

// New returns a caching completer in front of next.
func New(next domain.CompletionService, store Store, ttl time.Duration, logger *logrus.Entry) *Completer {
	return &Completer{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.WithField("component", "completion-cache"),
	}
}

// Complete returns a cached answer for prompt or asks the wrapped service.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	key := buildKey(prompt)
	if answer, ok := c.lookup(ctx, key); ok {
		return answer, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if answer, ok := c.lookup(ctx, key); ok {
			return answer, nil
		}
		answer, err := c.next.Complete(ctx, prompt)
		if err != nil {
			return "", err
		}
		if err := c.store.Set(ctx, key, answer, c.ttl); err != nil {
			c.logger.WithFields(logrus.Fields{"key": key, "err": err}).Warn("cache set failed")
		}
		return answer, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Completer) lookup(ctx context.Context, key string) (string, bool) {
	answer, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.WithFields(logrus.Fields{"key": key, "err": err}).Warn("cache get failed")
		}
		return "", false
	}
	c.logger.WithField("key", key).Debug("cache hit")
	return answer, true
}

func buildKey(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
