// Package metrics exposes Prometheus counters for store mutations and the
// statement mirror. The worker feeds the mutation series from the change
// events it consumes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	Registry *prometheus.Registry

	mutations        *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec
	mirrors          *prometheus.CounterVec
	mirrorDuration   prometheus.Histogram
	mirroredRows     prometheus.Gauge
	lastMirror       prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostledger_mutations_total",
				Help: "Store mutations by entity, operation and outcome.",
			},
			[]string{"entity", "op", "status"},
		),
		mutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ghostledger_mutation_duration_seconds",
				Help:    "Duration of store mutations including the slot write.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity", "op"},
		),
		mirrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostledger_mirror_runs_total",
				Help: "Statement mirror runs by trigger and outcome.",
			},
			[]string{"trigger", "status"},
		),
		mirrorDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ghostledger_mirror_duration_seconds",
				Help:    "Duration of a statement mirror run.",
				Buckets: prometheus.DefBuckets,
			},
		),
		mirroredRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ghostledger_mirror_rows",
				Help: "Transactions written by the last successful mirror.",
			},
		),
		lastMirror: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ghostledger_mirror_last_success_timestamp_seconds",
				Help: "Unix time of the last successful mirror.",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveMutation records one store mutation.
func (m *Metrics) ObserveMutation(entity, op string, err error, d time.Duration) {
	m.mutations.WithLabelValues(entity, op, status(err)).Inc()
	m.mutationDuration.WithLabelValues(entity, op).Observe(d.Seconds())
}

// ObserveMirror records one mirror run. rows is ignored on failure.
func (m *Metrics) ObserveMirror(trigger string, rows int, err error, d time.Duration) {
	m.mirrors.WithLabelValues(trigger, status(err)).Inc()
	m.mirrorDuration.Observe(d.Seconds())
	if err == nil {
		m.mirroredRows.Set(float64(rows))
		m.lastMirror.SetToCurrentTime()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
