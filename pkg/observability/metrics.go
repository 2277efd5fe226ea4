package observability

import (
	"context"

	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts calibration session activity. It implements
// prometheus.Collector; feed it through Hooks.
type Metrics struct {
	started     *prometheus.CounterVec
	ended       *prometheus.CounterVec
	active      *prometheus.GaugeVec
	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
}

// NewMetrics creates the collectors under the given namespace
// (e.g. "deckcal").
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Calibration sessions started.",
		}, []string{"workflow"}),
		ended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Calibration sessions ended, by final state.",
		}, []string{"workflow", "state"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Calibration sessions started and not yet ended by this process.",
		}, []string{"workflow"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Accepted workflow commands.",
		}, []string{"workflow", "command", "from", "to"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_commands_total",
			Help:      "Commands refused by the workflow state machine.",
		}, []string{"workflow", "command", "state"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.started, m.ended, m.active, m.transitions, m.rejected}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// Hooks returns lifecycle callbacks that update the metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(_ context.Context, e *domain.SessionEvent) {
			m.started.WithLabelValues(e.Workflow).Inc()
			m.active.WithLabelValues(e.Workflow).Inc()
		},
		OnSessionEnd: func(_ context.Context, e *domain.SessionEvent) {
			m.ended.WithLabelValues(e.Workflow, e.State).Inc()
			m.active.WithLabelValues(e.Workflow).Dec()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(e.Workflow, e.Command, e.From, e.To).Inc()
		},
		OnRejected: func(_ context.Context, e *domain.TransitionEvent) {
			m.rejected.WithLabelValues(e.Workflow, e.Command, e.From).Inc()
		},
	}
}
