package observability

import (
	"context"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts engine activity.
type Metrics struct {
	NodeVisits   *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Suspensions  *prometheus.CounterVec
	Completions  *prometheus.CounterVec
	Degradations *prometheus.CounterVec
	Suspended    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colloquy",
			Name:      "node_visits_total",
			Help:      "Total number of node visits.",
		}, []string{"conversation", "type"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colloquy",
			Name:      "transitions_total",
			Help:      "Outgoing flow ports taken.",
		}, []string{"conversation", "port"}),
		Suspensions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colloquy",
			Name:      "suspensions_total",
			Help:      "Executions suspended at event nodes.",
		}, []string{"conversation"}),
		Completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colloquy",
			Name:      "idle_total",
			Help:      "Executions that ran out of edges.",
		}, []string{"conversation"}),
		Degradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colloquy",
			Name:      "degradations_total",
			Help:      "Nodes that fell back to a safe default.",
		}, []string{"type", "reason"}),
		Suspended: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "colloquy",
			Name:      "suspended_executions",
			Help:      "Executions currently waiting for a choice in this process.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.NodeVisits, m.Transitions, m.Suspensions, m.Completions, m.Degradations, m.Suspended)
	}
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.ConversationID, e.NodeType).Inc()
		},
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			if e.Port != "" {
				m.Transitions.WithLabelValues(e.ConversationID, e.Port).Inc()
			}
		},
		OnSuspend: func(_ context.Context, s *domain.Suspension) {
			m.Suspensions.WithLabelValues(s.ConversationID).Inc()
			m.Suspended.Inc()
		},
		OnResume: func(context.Context, *domain.NodeEvent) {
			m.Suspended.Dec()
		},
		OnIdle: func(_ context.Context, e *domain.NodeEvent) {
			m.Completions.WithLabelValues(e.ConversationID).Inc()
		},
		OnDegraded: func(_ context.Context, e *domain.DegradedEvent) {
			m.Degradations.WithLabelValues(e.NodeType, e.Reason).Inc()
		},
	}
}
