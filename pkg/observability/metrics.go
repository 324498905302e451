package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "flowbench"

// Outcome label values of the activation counter.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the flow collectors on a dedicated registry.
type Metrics struct {
	reg *prometheus.Registry

	activations      *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	outputs          *prometheus.CounterVec
	errors           *prometheus.CounterVec
	reconfigurations *prometheus.CounterVec
	runs             *prometheus.CounterVec
}

// MetricsOption configures Metrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	reg       *prometheus.Registry
}

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// WithRegistry registers the collectors on reg instead of a new registry.
func WithRegistry(reg *prometheus.Registry) MetricsOption {
	return func(c *metricsConfig) {
		c.reg = reg
	}
}

// NewMetrics creates and registers the collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reg == nil {
		cfg.reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		reg: cfg.reg,
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "activations_total",
			Help:      "Number of actor activations.",
		}, []string{"actor_type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "activation_duration_seconds",
			Help:      "Duration of actor Execute calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"actor_type"}),
		outputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "tokens_emitted_total",
			Help:      "Number of tokens emitted by actors.",
		}, []string{"actor_type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "actor_errors_total",
			Help:      "Number of actor errors reported to the runtime.",
		}, []string{"actor_type"}),
		reconfigurations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "reconfigurations_total",
			Help:      "Number of actors reconfigured after a variable change.",
		}, []string{"actor_type"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "runs_total",
			Help:      "Number of finished flow runs.",
		}, []string{"flow", "status"}),
	}
	cfg.reg.MustRegister(m.activations, m.duration, m.outputs, m.errors, m.reconfigurations, m.runs)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivation: func(_ context.Context, e *domain.ActivationEvent) {
			outcome := OutcomeOK
			if e.Err != nil {
				outcome = OutcomeError
			}
			m.activations.WithLabelValues(e.ActorType, outcome).Inc()
			m.duration.WithLabelValues(e.ActorType).Observe(e.Duration.Seconds())
			if e.Outputs > 0 {
				m.outputs.WithLabelValues(e.ActorType).Add(float64(e.Outputs))
			}
		},
		OnError: func(_ context.Context, e *domain.ActorEvent) {
			m.errors.WithLabelValues(e.ActorType).Inc()
		},
		OnReconfigure: func(_ context.Context, e *domain.ActorEvent) {
			m.reconfigurations.WithLabelValues(e.ActorType).Inc()
		},
	}
}

// Run status label values.
const (
	StatusCompleted = "completed"
	StatusErrors    = "completed_with_errors"
	StatusStopped   = "stopped"
	StatusFailed    = "failed"
)

// ObserveRun counts a finished run. res may be nil when the flow could not be built.
func (m *Metrics) ObserveRun(flow string, res *domain.RunResult, err error) {
	m.runs.WithLabelValues(flow, RunStatus(res, err)).Inc()
}

// RunStatus classifies the outcome of Engine.Run.
func RunStatus(res *domain.RunResult, err error) string {
	switch {
	case res == nil:
		return StatusFailed
	case res.Stopped:
		return StatusStopped
	case err != nil:
		return StatusFailed
	case len(res.Errors) > 0:
		return StatusErrors
	default:
		return StatusCompleted
	}
}
