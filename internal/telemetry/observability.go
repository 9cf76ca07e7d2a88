package telemetry

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carry bounded cardinality only: no per-robot labels, since the
// robot count is small but the metric surface must not grow with match
// count over a server's lifetime.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kernel_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.02},
	})

	liveRobots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kernel_live_robots",
		Help: "Current number of live robots",
	})

	destroyedRobots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kernel_destroyed_robots",
		Help: "Current number of destroyed robots",
	})

	weaponsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kernel_weapons_in_flight",
		Help: "Current number of in-flight weapons",
	})

	eventLogTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kernel_event_log_emitted_total",
		Help: "Total events accepted into the audit feed",
	})

	eventLogDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kernel_event_log_dropped_total",
		Help: "Events dropped by the audit feed's rate limiter or while stopped",
	})

	fatalErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kernel_fatal_errors_total",
		Help: "Fatal simulation errors recovered by the tick loop",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telemetry_connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // bounded: "rate_limit", "origin", "ws_limit"

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "telemetry_websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_websocket_messages_total",
		Help: "Total snapshot broadcasts sent over WebSocket",
	})
)

// RecordTick records one tick's wall-clock duration.
func RecordTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// UpdateRobotCounts sets the live/destroyed robot gauges.
func UpdateRobotCounts(live, destroyed int) {
	liveRobots.Set(float64(live))
	destroyedRobots.Set(float64(destroyed))
}

// UpdateWeaponsInFlight sets the in-flight weapon gauge.
func UpdateWeaponsInFlight(n int) { weaponsInFlight.Set(float64(n)) }

// RecordEventLogStats bumps the emitted/dropped audit-feed counters by
// the deltas since the previous call.
func RecordEventLogStats(emittedDelta, droppedDelta uint64) {
	eventLogTotal.Add(float64(emittedDelta))
	eventLogDropped.Add(float64(droppedDelta))
}

// RecordFatalError increments the fatal-error counter.
func RecordFatalError() { fatalErrors.Inc() }

func recordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// UpdateWSConnections sets the active-WebSocket-connection gauge.
func UpdateWSConnections(n int) { wsConnectionsActive.Set(float64(n)) }

// IncrementWSMessages bumps the broadcast counter.
func IncrementWSMessages() { wsMessagesTotal.Inc() }

// MetricsHandler serves the Prometheus text exposition format.
func MetricsHandler() http.Handler { return promhttp.Handler() }

// DebugPprofRoutes registers net/http/pprof's handlers on mux, for a
// local-only debug listener (never the public telemetry router).
func DebugPprofRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
