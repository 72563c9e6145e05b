// Package metrics exposes signaling counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "lingo"
	subsystem = "signal"
)

var (
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "connections", Help: "Open WebSocket connections.",
	})
	Rooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "rooms", Help: "Rooms with at least one member.",
	})
	Frames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "frames_total", Help: "Inbound frames by event type.",
	}, []string{"type"})
	Malformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "malformed_frames_total", Help: "Inbound frames that were not a JSON object.",
	})
	Broadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "broadcasts_total", Help: "Room broadcasts issued.",
	})
	Deliveries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "deliveries_total", Help: "Frames queued to room members.",
	})
	Skipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "skipped_total", Help: "Room members skipped because their socket was closed.",
	})
	Dropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "dropped_total", Help: "Room members whose send queue was full.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
