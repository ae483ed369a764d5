package parser

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the parse cache.
type Metrics struct {
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CacheSize        prometheus.Gauge
}

// NewMetrics creates and registers the parse cache metrics once per process.
//
// Metrics:
//   - factd_parse_cache_hits_total
//   - factd_parse_cache_misses_total
//   - factd_parse_cache_size
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			CacheHitsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "factd_parse_cache_hits_total",
					Help: "Total number of parse cache hits",
				},
			),
			CacheMissesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "factd_parse_cache_misses_total",
					Help: "Total number of parse cache misses",
				},
			),
			CacheSize: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "factd_parse_cache_size",
					Help: "Current number of parsed texts in the cache",
				},
			),
		}
	})

	return globalMetrics
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit() { m.CacheHitsTotal.Inc() }

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss() { m.CacheMissesTotal.Inc() }

// SetCacheSize updates the cache size gauge.
func (m *Metrics) SetCacheSize(size int) { m.CacheSize.Set(float64(size)) }
