package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Assessment metrics
	assessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_engine_assessments_total",
			Help: "Total number of per-symbol risk assessments produced",
		},
		[]string{"status"},
	)

	batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_engine_batch_duration_seconds",
			Help:    "Duration of one full assessment batch",
			Buckets: prometheus.DefBuckets,
		},
	)

	batchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_engine_batch_size",
			Help:    "Number of symbols per assessment batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	// Data quality metrics
	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_engine_data_fallbacks_total",
			Help: "Total number of symbols that degraded to fallback metrics",
		},
		[]string{"reason"},
	)

	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "risk_engine_fetch_duration_seconds",
			Help:    "Duration of price fetches by provider",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(assessmentsTotal)
	prometheus.MustRegister(batchDuration)
	prometheus.MustRegister(batchSize)
	prometheus.MustRegister(fallbacksTotal)
	prometheus.MustRegister(fetchDuration)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordAssessment records one produced assessment by outcome status
func RecordAssessment(status string) {
	assessmentsTotal.WithLabelValues(status).Inc()
}

// RecordFallback records a symbol degrading to fallback metrics
func RecordFallback(reason string) {
	fallbacksTotal.WithLabelValues(reason).Inc()
}

// ObserveFetchDuration records the duration of one price fetch
func ObserveFetchDuration(provider string, seconds float64) {
	fetchDuration.WithLabelValues(provider).Observe(seconds)
}

// ObserveBatchDuration records the duration and size of one batch
func ObserveBatchDuration(seconds float64, symbols int) {
	batchDuration.Observe(seconds)
	batchSize.Observe(float64(symbols))
}
