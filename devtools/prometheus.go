package devtools

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks exports node counts, update counts and run durations as
// Prometheus metrics, grounded on the gauge/counter/histogram shapes an
// orchestration engine in the retrieval pack uses for its own per-step
// metrics.
type PrometheusHooks struct {
	nodesRegistered prometheus.Gauge
	updatesTotal    *prometheus.CounterVec
	runSeconds      *prometheus.HistogramVec
}

// NewPrometheusHooks registers its metrics against reg (use
// prometheus.DefaultRegisterer for the global registry).
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	factory := promauto.With(reg)
	return &PrometheusHooks{
		nodesRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "reactor",
			Name:      "nodes_registered",
			Help:      "Number of signal, computed and effect nodes currently registered.",
		}),
		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reactor",
			Name:      "node_updates_total",
			Help:      "Number of value changes or stale markings, by node kind.",
		}, []string{"kind"}),
		runSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reactor",
			Name:      "node_run_seconds",
			Help:      "Time spent recomputing a computed or running an effect, by node kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

func (h *PrometheusHooks) RegisterNode(id uint64, kind string) { h.nodesRegistered.Inc() }
func (h *PrometheusHooks) UnregisterNode(id uint64)            { h.nodesRegistered.Dec() }
func (h *PrometheusHooks) RecordUpdate(id uint64, kind string) { h.updatesTotal.WithLabelValues(kind).Inc() }

func (h *PrometheusHooks) WithTiming(id uint64, kind string, fn func()) {
	start := time.Now()
	defer func() { h.runSeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds()) }()
	fn()
}
