// Package metrics exports equalizer engine counters to Prometheus.
package metrics

import (
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource is implemented by *eq.Engine.
type StatsSource interface {
	Stats() eq.Stats
}

// CurveStatsSource is implemented by *curvecache.Cache.
type CurveStatsSource interface {
	Stats() (hits, misses uint64)
}

// EngineMetrics reads engine counters at scrape time, so the processing
// context never touches Prometheus types.
type EngineMetrics struct {
	source StatsSource
	curves CurveStatsSource

	blocks     *prometheus.Desc
	requests   *prometheus.Desc
	applied    *prometheus.Desc
	coalesced  *prometheus.Desc
	rejected   *prometheus.Desc
	generation *prometheus.Desc
	cacheHits  *prometheus.Desc
	cacheMiss  *prometheus.Desc

	// CurveDuration observes control-context curve rendering time.
	CurveDuration prometheus.Histogram
}

// NewEngineMetrics creates the collector and registers it with registry.
// curves may be nil.
func NewEngineMetrics(registry *prometheus.Registry, source StatsSource, curves CurveStatsSource) (*EngineMetrics, error) {
	m := &EngineMetrics{source: source, curves: curves}
	m.initMetrics()

	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register engine metrics: %w", err)
	}

	return m, nil
}

func (m *EngineMetrics) initMetrics() {
	m.blocks = prometheus.NewDesc("algoeq_blocks_processed_total",
		"Audio blocks processed by the engine.", nil, nil)
	m.requests = prometheus.NewDesc("algoeq_update_requests_total",
		"Parameter snapshots accepted from the control context.", nil, nil)
	m.applied = prometheus.NewDesc("algoeq_coefficient_recomputations_total",
		"Coefficient recomputations performed in the processing context.", nil, nil)
	m.coalesced = prometheus.NewDesc("algoeq_update_requests_coalesced_total",
		"Snapshots superseded before a block could apply them.", nil, nil)
	m.rejected = prometheus.NewDesc("algoeq_update_requests_rejected_total",
		"Snapshots rejected as invalid filter designs.", nil, nil)
	m.generation = prometheus.NewDesc("algoeq_applied_generation",
		"Generation of the snapshot currently applied.", nil, nil)
	m.cacheHits = prometheus.NewDesc("algoeq_curve_cache_hits_total",
		"Magnitude curves served from cache.", nil, nil)
	m.cacheMiss = prometheus.NewDesc("algoeq_curve_cache_misses_total",
		"Magnitude curves computed on demand.", nil, nil)

	m.CurveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "algoeq_curve_duration_seconds",
		Help:    "Time taken to produce a magnitude curve.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 12), // 10µs to ~20ms
	})
}

// Describe implements prometheus.Collector.
func (m *EngineMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.blocks
	ch <- m.requests
	ch <- m.applied
	ch <- m.coalesced
	ch <- m.rejected
	ch <- m.generation
	ch <- m.cacheHits
	ch <- m.cacheMiss
	m.CurveDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *EngineMetrics) Collect(ch chan<- prometheus.Metric) {
	st := m.source.Stats()

	ch <- prometheus.MustNewConstMetric(m.blocks, prometheus.CounterValue, float64(st.Blocks))
	ch <- prometheus.MustNewConstMetric(m.requests, prometheus.CounterValue, float64(st.Requests))
	ch <- prometheus.MustNewConstMetric(m.applied, prometheus.CounterValue, float64(st.Applied))
	ch <- prometheus.MustNewConstMetric(m.coalesced, prometheus.CounterValue, float64(st.Coalesced))
	ch <- prometheus.MustNewConstMetric(m.rejected, prometheus.CounterValue, float64(st.Rejected))
	ch <- prometheus.MustNewConstMetric(m.generation, prometheus.GaugeValue, float64(st.Generation))

	if m.curves != nil {
		hits, misses := m.curves.Stats()
		ch <- prometheus.MustNewConstMetric(m.cacheHits, prometheus.CounterValue, float64(hits))
		ch <- prometheus.MustNewConstMetric(m.cacheMiss, prometheus.CounterValue, float64(misses))
	}

	m.CurveDuration.Collect(ch)
}
