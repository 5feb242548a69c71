package specialists

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records find-a-specialist activity. Methods are nil-safe.
type Metrics struct {
	browses prometheus.Counter
	results prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		browses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "specialists",
			Name:      "browses_total",
			Help:      "Find-a-specialist browse requests.",
		}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "specialists",
			Name:      "browse_results",
			Help:      "Matching profile counts after filters and search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
	}
	reg.MustRegister(m.browses, m.results)
	return m
}

func (m *Metrics) ObserveBrowse(matched int) {
	if m == nil {
		return
	}
	m.browses.Inc()
	m.results.Observe(float64(matched))
}
