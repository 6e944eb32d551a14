package pool

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors shared by every pool of a process. Each
// pool reports under its mode label.
type Metrics struct {
	TasksSubmitted *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	ActiveWorkers  *prometheus.GaugeVec
	TaskLatency    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	labels := []string{"mode"}
	m := &Metrics{
		TasksSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks submitted to the pool",
		}, labels),
		TasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks completed successfully",
		}, labels),
		TasksFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks that failed",
		}, labels),
		ActiveWorkers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "active_workers",
			Help:      "Current number of workers running a task",
		}, labels),
		TaskLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "task_latency_seconds",
			Help:      "Histogram of task execution latency",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(
		m.TasksSubmitted,
		m.TasksCompleted,
		m.TasksFailed,
		m.ActiveWorkers,
		m.TaskLatency,
	)
	return m
}

// poolMetrics is Metrics curried with one mode. The zero value records nothing.
type poolMetrics struct {
	submitted prometheus.Counter
	completed prometheus.Counter
	failed    prometheus.Counter
	active    prometheus.Gauge
	latency   prometheus.Observer
}

func (m *Metrics) forMode(mode Mode) poolMetrics {
	if m == nil {
		return poolMetrics{}
	}
	l := string(mode)
	return poolMetrics{
		submitted: m.TasksSubmitted.WithLabelValues(l),
		completed: m.TasksCompleted.WithLabelValues(l),
		failed:    m.TasksFailed.WithLabelValues(l),
		active:    m.ActiveWorkers.WithLabelValues(l),
		latency:   m.TaskLatency.WithLabelValues(l),
	}
}

func (pm poolMetrics) enabled() bool {
	return pm.submitted != nil
}
