package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/factd/internal/logging"
	"github.com/fyrsmithlabs/factd/internal/normalize"
	"github.com/fyrsmithlabs/factd/internal/parser"
	"github.com/fyrsmithlabs/factd/internal/pattern"
)

// Configuration errors returned by NewAnalyzer.
var (
	ErrNoParser       = errors.New("parser is required")
	ErrNoGroups       = errors.New("at least one fact group is required")
	ErrDuplicateGroup = errors.New("duplicate fact group")
	ErrReservedGroup  = errors.New("group name is reserved")
)

// Analyzer turns statement texts into records.
// It is safe for concurrent use.
type Analyzer struct {
	parser     parser.Parser
	normalizer *normalize.Normalizer
	groups     []*pattern.Group
	names      []string
	searcher   *Searcher
	workers    int
	logger     *logging.Logger
	tracer     trace.Tracer
	metrics    *Metrics
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithLogger sets the analyzer logger.
func WithLogger(l *logging.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithTracer sets the tracer used for analysis spans.
func WithTracer(t trace.Tracer) AnalyzerOption {
	return func(a *Analyzer) {
		a.tracer = t
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) AnalyzerOption {
	return func(a *Analyzer) {
		a.normalizer = n
	}
}

// NewAnalyzer creates an analyzer searching groups in the given order.
func NewAnalyzer(p parser.Parser, groups []*pattern.Group, cfg Config, opts ...AnalyzerOption) (*Analyzer, error) {
	if p == nil {
		return nil, ErrNoParser
	}
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}

	names := make([]string, 0, len(groups))
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g.Name == NewsKey {
			return nil, fmt.Errorf("%w: %q", ErrReservedGroup, g.Name)
		}
		if seen[g.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, g.Name)
		}
		seen[g.Name] = true
		names = append(names, g.Name)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	a := &Analyzer{
		parser:     p,
		normalizer: normalize.Default(),
		groups:     groups,
		names:      names,
		workers:    workers,
		logger:     logging.Nop(),
		tracer:     Tracer(),
		metrics:    NewMetrics(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.Nop()
	}
	if a.tracer == nil {
		a.tracer = Tracer()
	}
	if a.normalizer == nil {
		a.normalizer = normalize.Default()
	}
	a.searcher = NewSearcher(a.logger)

	return a, nil
}

// Groups returns the group names in output order.
func (a *Analyzer) Groups() []string {
	return append([]string(nil), a.names...)
}

// TemplateCount returns the number of templates across all groups.
func (a *Analyzer) TemplateCount() int {
	n := 0
	for _, g := range a.groups {
		n += len(g.Templates)
	}
	return n
}

// EmptyRecord returns the empty record for the analyzer's groups.
func (a *Analyzer) EmptyRecord() Record {
	return EmptyRecord(a.names)
}

// Analyze normalizes text, parses it once and searches every group.
// Only parser failures are errors; a text without facts yields empty values.
func (a *Analyzer) Analyze(ctx context.Context, text string) (Record, error) {
	start := time.Now()

	ctx, span := startSpan(ctx, a.tracer, "extraction.analyze",
		attribute.Int("factd.text.length", len(text)),
	)
	defer span.End()

	news := a.normalizer.Normalize(text)
	rec := a.EmptyRecord()
	rec.News = news
	if news == "" {
		a.metrics.RecordText("ok", time.Since(start).Seconds())
		return rec, nil
	}

	doc, err := a.parser.Parse(ctx, news)
	if err != nil {
		recordError(span, err, "parse failed")
		a.metrics.RecordText("error", time.Since(start).Seconds())
		a.logger.Warn(ctx, "parse failed", zap.Error(err))
		return Record{}, fmt.Errorf("parse text: %w", err)
	}
	span.SetAttributes(attribute.Int("factd.sentences", len(doc)))

	for i, g := range a.groups {
		rec.Facts[i] = a.searcher.Search(ctx, doc, g)
	}

	span.SetAttributes(factAttributes(rec.Facts)...)
	a.metrics.RecordText("ok", time.Since(start).Seconds())
	a.logger.Debug(ctx, "text analyzed",
		zap.Int("sentences", len(doc)),
		zap.Duration("duration", time.Since(start)),
	)

	return rec, nil
}

// AnalyzeBatch analyzes texts concurrently and returns records in input
// order. The first parser failure cancels the remaining work and is returned.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) ([]Record, error) {
	records := make([]Record, len(texts))
	if len(texts) == 0 {
		return records, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, text := range texts {
		g.Go(func() error {
			rec, err := a.Analyze(logging.WithTextIndex(ctx, i), text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
