// Package metrics exports the driver station's loop and connection
// statistics to prometheus.
package metrics

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
)

// Publish kinds, used as the label on the publish counter.
const (
	KindAxis    = "axis"
	KindButton  = "button"
	KindMode    = "mode"
	KindEnabled = "enabled"
)

// New returns an initialized instance of the metrics system.
func New(opts ...Option) *Metrics {
	x := &Metrics{
		l: hclog.NewNullLogger(),
		r: prometheus.NewRegistry(),

		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gizmo",
			Subsystem: "ds",
			Name:      "ticks_total",
			Help:      "Number of control loop iterations.",
		}),

		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gizmo",
			Subsystem: "ds",
			Name:      "tick_duration_seconds",
			Help:      "Time spent sampling and publishing per loop iteration.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),

		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gizmo",
			Subsystem: "ds",
			Name:      "publishes_total",
			Help:      "Values written to the driver station table.",
		}, []string{"kind"}),

		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gizmo",
			Subsystem: "ds",
			Name:      "connected",
			Help:      "1 when the key-value session has a reachable peer.",
		}),

		statusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gizmo",
			Subsystem: "ds",
			Name:      "status_changes_total",
			Help:      "Number of connectivity transitions.",
		}),

		controllers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gizmo",
			Subsystem: "ds",
			Name:      "controllers",
			Help:      "Controllers bound at startup.",
		}),

		watchdogBites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gizmo",
			Subsystem: "ds",
			Name:      "watchdog_bites_total",
			Help:      "Times the control loop stalled long enough to trip the watchdog.",
		}),
	}

	x.r.MustRegister(x.ticks)
	x.r.MustRegister(x.tickDuration)
	x.r.MustRegister(x.publishes)
	x.r.MustRegister(x.connected)
	x.r.MustRegister(x.statusChanges)
	x.r.MustRegister(x.controllers)
	x.r.MustRegister(x.watchdogBites)

	for _, o := range opts {
		o(x)
	}

	return x
}

// Registry provides access to the registry that this instance
// manages.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.r
}

// ObserveTick records a completed loop iteration.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// ObservePublish counts n writes of the given kind.
func (m *Metrics) ObservePublish(kind string, n int) {
	m.publishes.With(prometheus.Labels{"kind": kind}).Add(float64(n))
}

// SetControllers records how many controllers are bound.
func (m *Metrics) SetControllers(n int) {
	m.controllers.Set(float64(n))
}

// StatusChanged records a connectivity transition.
func (m *Metrics) StatusChanged(connected bool) {
	m.statusChanges.Inc()
	m.connected.Set(fCast(connected))
	m.l.Trace("Connectivity changed", "connected", connected)
}

// WatchdogBite records a stalled loop.
func (m *Metrics) WatchdogBite() {
	m.watchdogBites.Inc()
}

func fCast(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
