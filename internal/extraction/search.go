package extraction

import (
	"context"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/factd/internal/logging"
	"github.com/fyrsmithlabs/factd/internal/matcher"
	"github.com/fyrsmithlabs/factd/internal/parsetree"
	"github.com/fyrsmithlabs/factd/internal/pattern"
)

// Match is the outcome of a template that fully matched a sentence.
type Match struct {
	Template string
	Values   []string
}

// SearchSentence tries templates in order against the sentence rooted at
// root. The first full match wins, even if it extracts nothing. The second
// result is false when no template fully matches.
func SearchSentence(root parsetree.Node, templates []*pattern.Template) (Match, bool) {
	return searchSentence(root, templates, nil)
}

func searchSentence(root parsetree.Node, templates []*pattern.Template, observe func(t *pattern.Template, full bool)) (Match, bool) {
	for _, t := range templates {
		s := matcher.Match(root, t)
		full := s.FullMatch()
		if observe != nil {
			observe(t, full)
		}
		if full {
			return Match{Template: t.Name(), Values: s.Extract()}, true
		}
	}
	return Match{}, false
}

// Searcher runs fact groups over parsed documents.
type Searcher struct {
	logger  *logging.Logger
	metrics *Metrics
}

// NewSearcher creates a searcher. A nil logger discards output.
func NewSearcher(logger *logging.Logger) *Searcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Searcher{logger: logger, metrics: NewMetrics()}
}

// Search returns the fact of group g in doc: the first value extracted from
// the first sentence whose full match extracts anything. Sentences after it
// are not visited.
func (s *Searcher) Search(ctx context.Context, doc parsetree.Document, g *pattern.Group) Fact {
	observe := func(t *pattern.Template, full bool) {
		s.metrics.RecordAttempt(g.Name, t.Name(), full)
	}

	for i, tree := range doc {
		s.metrics.RecordSentence(g.Name)

		m, ok := searchSentence(tree.Root(), g.Templates, observe)
		if !ok {
			continue
		}
		if len(m.Values) == 0 {
			s.logger.Trace(ctx, "template matched without values",
				zap.String("group", g.Name),
				zap.String("template", m.Template),
				zap.Int("sentence", i),
			)
			continue
		}

		s.logger.Debug(ctx, "fact found",
			zap.String("group", g.Name),
			zap.String("template", m.Template),
			zap.Int("sentence", i),
			zap.String("value", m.Values[0]),
		)
		s.metrics.RecordFact(g.Name)
		return Fact{Group: g.Name, Value: m.Values[0], Template: m.Template, Sentence: i}
	}

	return Fact{Group: g.Name, Sentence: -1}
}
