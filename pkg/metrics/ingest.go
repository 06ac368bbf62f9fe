package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics records counters around CSV ingestion runs.
type IngestMetrics struct {
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewIngestMetrics registers the ingestion metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ingest_duration_seconds",
		Help:    "Duration of CSV ingestion runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_total",
		Help: "Rows persisted from CSV uploads.",
	}, []string{"restaurant"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_dropped_total",
		Help: "Rows dropped during CSV ingestion.",
	}, []string{"restaurant"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_failures_total",
		Help: "Failed CSV ingestion runs.",
	}, []string{"reason"})
	reg.MustRegister(duration, rows, dropped, failures)
	return &IngestMetrics{
		duration: duration,
		rows:     rows,
		dropped:  dropped,
		failures: failures,
	}
}

// ObserveDuration records how long an ingestion run took.
func (m *IngestMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// AddRows counts persisted rows for the given restaurant.
func (m *IngestMetrics) AddRows(restaurantID string, n int) {
	if m == nil || m.rows == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(restaurantID)).Add(float64(n))
}

// AddDropped counts dropped rows for the given restaurant.
func (m *IngestMetrics) AddDropped(restaurantID string, n int) {
	if m == nil || m.dropped == nil || n <= 0 {
		return
	}
	m.dropped.WithLabelValues(normalizeLabel(restaurantID)).Add(float64(n))
}

// IncFailure counts a failed ingestion run by reason.
func (m *IngestMetrics) IncFailure(reason string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
