package extraction

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for fact extraction.
type Metrics struct {
	TextsAnalyzedTotal     *prometheus.CounterVec
	SentencesSearchedTotal *prometheus.CounterVec
	TemplateAttemptsTotal  *prometheus.CounterVec
	TemplateMatchesTotal   *prometheus.CounterVec
	FactsExtractedTotal    *prometheus.CounterVec
	AnalysisDuration       prometheus.Histogram
}

// NewMetrics creates and registers extraction metrics.
//
// sync.Once keeps registration global, so repeated calls return the same
// collectors instead of panicking on duplicate registration.
//
// Metrics:
//   - factd_texts_analyzed_total{status} - texts analyzed ("ok" or "error")
//   - factd_sentences_searched_total{group} - sentences visited per group
//   - factd_template_attempts_total{group,template} - match attempts
//   - factd_template_matches_total{group,template} - full matches
//   - factd_facts_extracted_total{group} - texts where the group found a value
//   - factd_analysis_duration_seconds - histogram of per-text analysis time
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			TextsAnalyzedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "factd_texts_analyzed_total",
					Help: "Total number of texts analyzed",
				},
				[]string{"status"},
			),

			SentencesSearchedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "factd_sentences_searched_total",
					Help: "Total number of sentences searched per fact group",
				},
				[]string{"group"},
			),

			TemplateAttemptsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "factd_template_attempts_total",
					Help: "Total number of template match attempts",
				},
				[]string{"group", "template"},
			),

			TemplateMatchesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "factd_template_matches_total",
					Help: "Total number of full template matches",
				},
				[]string{"group", "template"},
			),

			FactsExtractedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "factd_facts_extracted_total",
					Help: "Total number of facts extracted per group",
				},
				[]string{"group"},
			),

			AnalysisDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "factd_analysis_duration_seconds",
					Help:    "Duration of one text analysis in seconds, parsing included",
					Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
				},
			),
		}
	})

	return globalMetrics
}

// RecordText records one analyzed text.
func (m *Metrics) RecordText(status string, durationSeconds float64) {
	m.TextsAnalyzedTotal.WithLabelValues(status).Inc()
	m.AnalysisDuration.Observe(durationSeconds)
}

// RecordSentence records one sentence searched for group.
func (m *Metrics) RecordSentence(group string) {
	m.SentencesSearchedTotal.WithLabelValues(group).Inc()
}

// RecordAttempt records one template attempt and whether it fully matched.
func (m *Metrics) RecordAttempt(group, template string, full bool) {
	m.TemplateAttemptsTotal.WithLabelValues(group, template).Inc()
	if full {
		m.TemplateMatchesTotal.WithLabelValues(group, template).Inc()
	}
}

// RecordFact records a fact found for group.
func (m *Metrics) RecordFact(group string) {
	m.FactsExtractedTotal.WithLabelValues(group).Inc()
}
