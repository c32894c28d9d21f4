// Package metrics exposes quick-access counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hydration"

// Redemption outcomes.
const (
	OutcomeRecorded     = "recorded"
	OutcomeUnauthorized = "unauthorized"
	OutcomeCooldown     = "cooldown"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

// Token lifecycle operations.
const (
	OperationIssue  = "issue"
	OperationRevoke = "revoke"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	registry    *prometheus.Registry
	redemptions *prometheus.CounterVec
	tokenOps    *prometheus.CounterVec
	intakeMl    prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quick_access",
			Name:      "redemptions_total",
			Help:      "Quick-access redemption attempts by outcome.",
		}, []string{"outcome"}),
		tokenOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quick_access",
			Name:      "token_operations_total",
			Help:      "Quick-access token issue and revoke operations.",
		}, []string{"operation"}),
		intakeMl: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "water_intake_ml_total",
			Help:      "Total millilitres of water logged.",
		}),
	}

	registry.MustRegister(
		m.redemptions,
		m.tokenOps,
		m.intakeMl,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRedemption(outcome string) {
	if m == nil {
		return
	}
	m.redemptions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveTokenOperation(operation string) {
	if m == nil {
		return
	}
	m.tokenOps.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveIntake(amountMl int) {
	if m == nil {
		return
	}
	m.intakeMl.Add(float64(amountMl))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
