package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const ServiceName = "zephyr-bot"

// Metrics holds the bot's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	RegistryBindings *prometheus.CounterVec
	DispatchTotal    *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	Publications     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		RegistryBindings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zephyr",
			Subsystem: "registry",
			Name:      "bindings_total",
			Help:      "Bindings scanned at startup by registry and status.",
		}, []string{"registry", "status"}),

		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zephyr",
			Name:      "dispatch_total",
			Help:      "Dispatched commands and events by outcome.",
		}, []string{"kind", "key", "outcome"}),

		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zephyr",
			Name:      "dispatch_duration_seconds",
			Help:      "Handler duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"kind"}),

		Publications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zephyr",
			Name:      "publications_total",
			Help:      "Command publication attempts by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.RegistryBindings,
		m.DispatchTotal,
		m.DispatchDuration,
		m.Publications,
	)
	return m
}

// RecordBuild adds the startup scan counts of one registry.
func (m *Metrics) RecordBuild(registry string, ok, failed int) {
	if m == nil {
		return
	}
	m.RegistryBindings.WithLabelValues(registry, "ok").Add(float64(ok))
	m.RegistryBindings.WithLabelValues(registry, "failed").Add(float64(failed))
}

func (m *Metrics) RecordDispatch(kind, key, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(kind, key, outcome).Inc()
	m.DispatchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordPublication counts one publish attempt: "published", "unchanged" or "failed".
func (m *Metrics) RecordPublication(status string) {
	if m == nil {
		return
	}
	m.Publications.WithLabelValues(status).Inc()
}
