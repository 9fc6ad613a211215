// Package prom exports dispatcher metrics to Prometheus.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	dispatched *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	unhandled  *prometheus.CounterVec
	errors     *prometheus.CounterVec
}

// New registers the dispatcher collectors on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worldharvest_commands_dispatched_total",
				Help: "Commands that reached a handler, by outcome.",
			},
			[]string{"type", "status"}, // status: success/failed
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "worldharvest_command_duration_seconds",
				Help:    "Handler latency per command type.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		unhandled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worldharvest_commands_unhandled_total",
				Help: "Commands dispatched with no registered handler.",
			},
			[]string{"type"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worldharvest_command_errors_total",
				Help: "Handlers that returned an error instead of a result.",
			},
			[]string{"type"},
		),
	}
	for _, c := range []prometheus.Collector{m.dispatched, m.latency, m.unhandled, m.errors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RecordDispatch(commandType string, success bool, elapsed time.Duration) {
	status := "success"
	if !success {
		status = "failed"
	}
	m.dispatched.WithLabelValues(commandType, status).Inc()
	m.latency.WithLabelValues(commandType).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordUnhandled(commandType string) {
	m.unhandled.WithLabelValues(commandType).Inc()
}

func (m *Metrics) RecordError(commandType string) {
	m.errors.WithLabelValues(commandType).Inc()
}
