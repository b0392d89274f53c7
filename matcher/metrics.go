package matcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for matcher compilation and corpus scans
type Metrics struct {
	// Cache lookups by result: "hit", "miss"
	CacheLookups *prometheus.CounterVec

	// Compilations by outcome: "ok", "error"
	Compilations *prometheus.CounterVec

	// Corpus scan latency by mode: "exact", "within"
	ScanLatency *prometheus.HistogramVec
}

// NewMetrics registers matcher metrics with registerer
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spdxmatch_cache_lookups_total",
			Help: "Compiled matcher cache lookups by result",
		}, []string{"result"}),

		Compilations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spdxmatch_compilations_total",
			Help: "License matcher compilations by outcome",
		}, []string{"outcome"}),

		ScanLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spdxmatch_scan_duration_seconds",
			Help:    "Duration of whole corpus scans",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"mode"}),
	}
}

// IncrementLookup records a cache lookup
func (m *Metrics) IncrementLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// IncrementCompilation records a compilation outcome
func (m *Metrics) IncrementCompilation(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Compilations.WithLabelValues(outcome).Inc()
}

// ObserveScan records a corpus scan duration
func (m *Metrics) ObserveScan(mode string, d time.Duration) {
	if m != nil {
		m.ScanLatency.WithLabelValues(mode).Observe(d.Seconds())
	}
}
