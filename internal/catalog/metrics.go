package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records directory listing activity. All methods are nil-safe so the
// service can run without a registry in tests.
type Metrics struct {
	listings *prometheus.CounterVec
	results  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		listings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "catalog",
			Name:      "listings_total",
			Help:      "Directory listing requests by collection.",
		}, []string{"collection"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "catalog",
			Name:      "listing_results",
			Help:      "Matching item counts after filters and search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"collection"}),
	}
	reg.MustRegister(m.listings, m.results)
	return m
}

func (m *Metrics) ObserveListing(collection string, matched int) {
	if m == nil {
		return
	}
	m.listings.WithLabelValues(collection).Inc()
	m.results.WithLabelValues(collection).Observe(float64(matched))
}
