// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Upstream connection state and reconnect counts
//   - Frame and signal throughput
//   - Live subscriber count
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all relay metrics. Components receive a *Metrics as an
// injected collaborator; a freshly constructed, unregistered instance is a
// valid no-op sink for tests.
type Metrics struct {
	// Upstream feed
	UpstreamConnected prometheus.Gauge
	Reconnects        prometheus.Counter
	FramesReceived    prometheus.Counter
	SignalsPublished  prometheus.Counter

	// Subscribers
	Subscribers prometheus.Gauge
}

// New creates a Metrics instance with all collectors. Collectors are not
// registered; call Register to expose them.
func New() *Metrics {
	return &Metrics{
		UpstreamConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cryptoscan",
			Subsystem: "feed",
			Name:      "upstream_connected",
			Help:      "Whether the upstream feed connection is established (0 or 1)",
		}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptoscan",
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of upstream reconnect attempts",
		}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptoscan",
			Subsystem: "feed",
			Name:      "frames_received_total",
			Help:      "Total number of raw frames read from the upstream feed",
		}),
		SignalsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptoscan",
			Subsystem: "feed",
			Name:      "signals_published_total",
			Help:      "Total number of signals published to subscribers",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cryptoscan",
			Subsystem: "relay",
			Name:      "subscribers",
			Help:      "Number of currently connected subscribers",
		}),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.UpstreamConnected,
		m.Reconnects,
		m.FramesReceived,
		m.SignalsPublished,
		m.Subscribers,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns an HTTP handler serving the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
