// Package metrics exposes Prometheus collectors for theme resolution.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts theme resolutions and mode fallbacks per surface.
type Metrics struct {
	resolutions *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	sessions    prometheus.Gauge
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the instance registered with the global registry. It is
// created once so repeated construction does not panic on duplicate
// registration.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew registers a fresh set of collectors with reg and panics on
// registration errors.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mosaic",
				Subsystem: "theme",
				Name:      "resolutions_total",
				Help:      "Theme configurations resolved, by surface, app and mode.",
			},
			[]string{"surface", "app", "mode"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mosaic",
				Subsystem: "theme",
				Name:      "mode_fallbacks_total",
				Help:      "Unrecognized mode inputs normalized to the default mode.",
			},
			[]string{"surface"},
		),
		sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "mosaic",
				Subsystem: "ssh",
				Name:      "sessions_active",
				Help:      "Form sessions currently attached over SSH.",
			},
		),
	}
	reg.MustRegister(m.resolutions, m.fallbacks, m.sessions)
	return m
}

// ObserveResolution records one resolution. fallback marks that the mode
// input was not recognized.
func (m *Metrics) ObserveResolution(surface, app, mode string, fallback bool) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(surface, app, mode).Inc()
	if fallback {
		m.fallbacks.WithLabelValues(surface).Inc()
	}
}

// SessionStarted increments the active session gauge.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionEnded decrements the active session gauge.
func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}
