// Package metrics counts login ceremony outcomes and audit write failures.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ingeniuz"

// Outcome labels.
const (
	OutcomeAttempt = "attempt"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics methods are safe to call on a nil receiver.
type Metrics struct {
	registry           *prometheus.Registry
	CeremonySteps      *prometheus.CounterVec
	AuditWriteFailures prometheus.Counter
	StateTransitions   *prometheus.CounterVec
}

// New registers collectors on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CeremonySteps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_steps_total",
			Help:      "Login ceremony steps by operation and outcome",
		}, []string{"operation", "outcome"}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Audit entries that could not be persisted",
		}),
		StateTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_state_transitions_total",
			Help:      "Orchestrator state changes by target state",
		}, []string{"state"}),
	}
}

func (m *Metrics) Step(operation, outcome string) {
	if m == nil {
		return
	}
	m.CeremonySteps.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) AuditWriteFailed() {
	if m == nil {
		return
	}
	m.AuditWriteFailures.Inc()
}

func (m *Metrics) Transition(state string) {
	if m == nil {
		return
	}
	m.StateTransitions.WithLabelValues(state).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
