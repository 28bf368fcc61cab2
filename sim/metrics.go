// Tracks simulation-wide counters such as cycles consumed per component kind
// and dispatches per policy, exported through a private Prometheus registry.

package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates statistics about a simulation run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operationsCompleted   *prometheus.CounterVec
	cyclesConsumed        *prometheus.CounterVec
	dispatches            *prometheus.CounterVec
	applicationsCompleted prometheus.Counter
	poolSize              prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operationsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedsim_operations_completed_total",
				Help: "Operations whose every cycle has been simulated, by component kind.",
			},
			[]string{"kind"},
		),
		cyclesConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedsim_cycles_consumed_total",
				Help: "Cycles simulated, by component kind.",
			},
			[]string{"kind"},
		),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedsim_dispatches_total",
				Help: "Applications given the processor, by scheduling policy.",
			},
			[]string{"policy"},
		),
		applicationsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedsim_applications_completed_total",
			Help: "Applications removed from the pool after finishing all operations.",
		}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedsim_pool_size",
			Help: "Applications currently in the scheduler pool.",
		}),
	}
	m.registry.MustRegister(
		m.operationsCompleted,
		m.cyclesConsumed,
		m.dispatches,
		m.applicationsCompleted,
		m.poolSize,
	)
	return m
}

// Registry exposes the collectors, e.g. for promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveCycles(kind Component, cycles int) {
	if m == nil {
		return
	}
	m.cyclesConsumed.WithLabelValues(string(kind)).Add(float64(cycles))
}

func (m *Metrics) ObserveOperationCompleted(kind Component) {
	if m == nil {
		return
	}
	m.operationsCompleted.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ObserveDispatch(p Policy) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(string(p)).Inc()
}

func (m *Metrics) ObserveApplicationCompleted() {
	if m == nil {
		return
	}
	m.applicationsCompleted.Inc()
}

func (m *Metrics) SetPoolSize(n int) {
	if m == nil {
		return
	}
	m.poolSize.Set(float64(n))
}
