// Package parser obtains dependency parses from an external parsing service.
//
// The service splits a text into sentences and returns, for every sentence,
// the token list with head indices (see parsetree.Token). HTTPClient talks to
// it over HTTP; Cached memoizes parses in an LRU keyed by the exact text.
package parser

import (
	"context"
	"errors"
	"time"

	"github.com/fyrsmithlabs/factd/internal/parsetree"
)

// Parser turns a text into its ordered sentence trees.
type Parser interface {
	Parse(ctx context.Context, text string) (parsetree.Document, error)
}

// ErrEmptyText is returned for a text with no content.
var ErrEmptyText = errors.New("text is empty")

// Request is the body sent to the parsing service.
type Request struct {
	Text string `json:"text"`
}

// Response is the body returned by the parsing service.
type Response struct {
	Sentences []parsetree.Sentence `json:"sentences"`
}

// Config configures the parsing service client.
type Config struct {
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
	CacheSize int           `koanf:"cache_size"`
	// APIKey is sent as a bearer token when set.
	APIKey string `koanf:"api_key"`

	// RateLimit bounds requests per second to the service; zero removes the bound.
	RateLimit  float64 `koanf:"rate_limit"`
	Burst      int     `koanf:"burst"`
	MaxRetries int     `koanf:"max_retries"`
}

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultTimeout     = 10 * time.Second
	defaultCacheSize   = 1024
	defaultBurst       = 8
	defaultMaxRetries  = 2
	defaultBaseBackoff = 200 * time.Millisecond
	maxErrorBody       = 512
)

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:    defaultBaseURL,
		Timeout:    defaultTimeout,
		CacheSize:  defaultCacheSize,
		Burst:      defaultBurst,
		MaxRetries: defaultMaxRetries,
	}
}

// Static serves a fixed document for every text. It backs offline template
// authoring and tests.
type Static struct {
	Doc parsetree.Document
}

// Parse returns s.Doc.
func (s Static) Parse(ctx context.Context, text string) (parsetree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Doc, nil
}

// Func adapts a function to Parser.
type Func func(ctx context.Context, text string) (parsetree.Document, error)

// Parse calls f.
func (f Func) Parse(ctx context.Context, text string) (parsetree.Document, error) {
	return f(ctx, text)
}
