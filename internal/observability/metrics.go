package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the report pipeline.
type Metrics struct {
	// labels: outcome={saved,rejected,failed}
	Reports *prometheus.CounterVec

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={ok,zero_results,other,error}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeCandidates  prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Reports,
		m.GeocodeRequests,
		m.GeocodeAPIDuration,
		m.GeocodeCandidates,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_report",
			Name:      "reports_total",
			Help:      "Inbound report messages by pipeline outcome.",
		}, []string{"outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_report",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_report",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_report",
			Name:      "geocode_candidates_tried",
			Help:      "Number of fallback addresses tried per resolution.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6},
		}),
	}
}
