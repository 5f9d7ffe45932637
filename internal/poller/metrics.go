// Package poller runs the commander's poll loop: fetch a snapshot,
// plan, issue commands, log. One iteration at a time, a fixed sleep
// between iterations, no overlap.
package poller

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricPollsTotal           = "commander_polls_total"
	MetricPollDuration         = "commander_poll_duration_seconds"
	MetricAssignmentsTotal     = "commander_assignments_total"
	MetricQueueLength          = "commander_queue_length"
	MetricCommandFailuresTotal = "commander_command_failures_total"
)

// Status constants for poll completion.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains Prometheus metrics for the poll loop. All operations
// are thread-safe.
type Metrics struct {
	pollsTotal      *prometheus.CounterVec
	pollDuration    prometheus.Histogram
	assignments     *prometheus.CounterVec
	queueLength     prometheus.Gauge
	commandFailures *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all
// collectors initialized. The metrics are not registered; call Register
// to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricPollsTotal,
				Help: "Total number of poll iterations by completion status",
			},
			[]string{"status"},
		),
		pollDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricPollDuration,
				Help:    "Histogram of poll iteration duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
			},
		),
		assignments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricAssignmentsTotal,
				Help: "Total number of assignment commands issued by kind",
			},
			[]string{"kind"},
		),
		queueLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricQueueLength,
				Help: "Current number of students waiting in the unassigned pool",
			},
		),
		commandFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCommandFailuresTotal,
				Help: "Total number of failed backend commands by command type",
			},
			[]string{"command"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.pollsTotal,
		m.pollDuration,
		m.assignments,
		m.queueLength,
		m.commandFailures,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncPolls increments the poll counter for the given status.
func (m *Metrics) IncPolls(status string) {
	m.pollsTotal.WithLabelValues(status).Inc()
}

// ObservePollDuration records one poll iteration's duration in seconds.
func (m *Metrics) ObservePollDuration(seconds float64) {
	m.pollDuration.Observe(seconds)
}

// IncAssignments increments the assignment counter for the given kind.
func (m *Metrics) IncAssignments(kind string) {
	m.assignments.WithLabelValues(kind).Inc()
}

// SetQueueLength sets the queue length gauge.
func (m *Metrics) SetQueueLength(n int) {
	m.queueLength.Set(float64(n))
}

// IncCommandFailures increments the command failure counter.
func (m *Metrics) IncCommandFailures(command string) {
	m.commandFailures.WithLabelValues(command).Inc()
}
