package harness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsNamespace prefixes every metric name.
const MetricsNamespace = "uiprobe"

// Metrics counts scenario runs and times their steps. Each Metrics has its
// own registry so runs in one process do not share counters by accident.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	failedState  *prometheus.CounterVec
}

// NewMetrics creates the run metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "scenario_runs_total",
			Help:      "Count of scenario runs",
		}, []string{
			"scenario",
			"result",
		}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of scenario steps",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 60},
		}, []string{
			"scenario",
			"step",
			"result",
		}),
		failedState: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "scenario_failures_total",
			Help:      "Count of failed runs by the state they failed in",
		}, []string{
			"scenario",
			"state",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(r *Report) {
	result := "pass"
	if !r.Passed() {
		result = "fail"
		m.failedState.WithLabelValues(r.Scenario, r.FailedIn.String()).Inc()
	}
	m.runsTotal.WithLabelValues(r.Scenario, result).Inc()
	for _, s := range r.Steps {
		stepResult := "pass"
		if s.Err != nil {
			stepResult = "fail"
		}
		m.stepDuration.WithLabelValues(r.Scenario, s.Name, stepResult).Observe(s.Duration.Seconds())
	}
}

// WriteTextfile writes every metric in the Prometheus text format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
