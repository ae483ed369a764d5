package parser

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fyrsmithlabs/factd/internal/parsetree"
)

// Cached memoizes parses of an underlying Parser. Trees are immutable, so a
// cached document is shared between callers. Failed parses are not cached.
type Cached struct {
	next    Parser
	cache   *lru.Cache[string, parsetree.Document]
	metrics *Metrics
}

// NewCached wraps next with an LRU of the given size. A size of zero or less
// returns next unchanged.
func NewCached(next Parser, size int) (Parser, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[string, parsetree.Document](size)
	if err != nil {
		return nil, fmt.Errorf("create parse cache: %w", err)
	}
	return &Cached{next: next, cache: cache, metrics: NewMetrics()}, nil
}

// Parse returns the cached document for text, parsing it on a miss.
func (c *Cached) Parse(ctx context.Context, text string) (parsetree.Document, error) {
	if doc, ok := c.cache.Get(text); ok {
		c.metrics.RecordCacheHit()
		return doc, nil
	}
	c.metrics.RecordCacheMiss()

	doc, err := c.next.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, doc)
	c.metrics.SetCacheSize(c.cache.Len())
	return doc, nil
}

// Len returns the number of cached documents.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Purge drops every cached document.
func (c *Cached) Purge() {
	c.cache.Purge()
	c.metrics.SetCacheSize(0)
}
