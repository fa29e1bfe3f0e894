package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/petrijr/caseflow/pkg/api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsObserver exports case and step metrics to Prometheus.
type MetricsObserver struct {
	casesStarted  *prometheus.CounterVec
	casesFinished *prometheus.CounterVec
	caseDuration  *prometheus.HistogramVec
	inFlight      *prometheus.GaugeVec
	steps         *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec

	registry *prometheus.Registry
}

var _ api.Observer = (*MetricsObserver)(nil)

// NewMetricsObserver registers the case metrics in a fresh registry.
func NewMetricsObserver(cfg MetricsConfig) (*MetricsObserver, error) {
	namespace := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m := &MetricsObserver{
		registry: prometheus.NewRegistry(),

		casesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cases_started_total",
				Help:      "Total number of case calls started",
			},
			[]string{"case"},
		),
		casesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cases_finished_total",
				Help:      "Total number of case calls finished, by outcome",
			},
			[]string{"case", "outcome"},
		),
		caseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "case_duration_seconds",
				Help:      "Duration of case calls in seconds",
				Buckets:   buckets,
			},
			[]string{"case", "outcome"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cases_in_flight",
				Help:      "Number of case calls currently running",
			},
			[]string{"case"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Total number of resolved steps, by status",
			},
			[]string{"case", "status"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of resolved steps in seconds",
				Buckets:   buckets,
			},
			[]string{"case"},
		),
	}

	collectors := []prometheus.Collector{
		m.casesStarted, m.casesFinished, m.caseDuration,
		m.inFlight, m.steps, m.stepDuration,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registry returns the registry holding the case metrics.
func (m *MetricsObserver) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsObserver) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsObserver) OnCaseStart(ctx context.Context, exec *api.Execution) {
	m.casesStarted.WithLabelValues(exec.Case).Inc()
	m.inFlight.WithLabelValues(exec.Case).Inc()
}

func (m *MetricsObserver) OnCaseSucceeded(ctx context.Context, exec *api.Execution) {
	m.finish(exec)
}

func (m *MetricsObserver) OnCaseFailed(ctx context.Context, exec *api.Execution, failure any) {
	m.finish(exec)
}

func (m *MetricsObserver) finish(exec *api.Execution) {
	outcome := string(exec.Outcome())
	m.inFlight.WithLabelValues(exec.Case).Dec()
	m.casesFinished.WithLabelValues(exec.Case, outcome).Inc()
	m.caseDuration.WithLabelValues(exec.Case, outcome).Observe(exec.Elapsed().Seconds())
}

func (m *MetricsObserver) OnStepStart(ctx context.Context, exec *api.Execution, step string, idx int) {}

func (m *MetricsObserver) OnStepCompleted(ctx context.Context, exec *api.Execution, step string, idx int, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.steps.WithLabelValues(exec.Case, status).Inc()
	m.stepDuration.WithLabelValues(exec.Case).Observe(d.Seconds())
}
