package payment

import (
	"github.com/prometheus/client_golang/prometheus"

	"neuroportal/internal/wizard"
)

// Metrics records payment flow progress. Methods are nil-safe.
type Metrics struct {
	completed *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "payment",
			Name:      "steps_completed_total",
			Help:      "Wizard steps completed, by step.",
		}, []string{"step"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "payment",
			Name:      "steps_failed_total",
			Help:      "Wizard step effects that failed, by step.",
		}, []string{"step"}),
	}
	reg.MustRegister(m.completed, m.failed)
	return m
}

func (m *Metrics) StepCompleted(step wizard.StepID) {
	if m == nil {
		return
	}
	m.completed.WithLabelValues(string(step)).Inc()
}

func (m *Metrics) StepFailed(step wizard.StepID) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(string(step)).Inc()
}
