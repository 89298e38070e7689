package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	spawns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "spawns_total",
			Help:      "Number of successful worker spawns.",
		}, []string{"name"},
	)
	spawnFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "spawn_failures_total",
			Help:      "Number of launch attempts that failed to spawn.",
		}, []string{"name"},
	)
	stdoutLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "stdout_lines_total",
			Help:      "Worker stdout lines observed.",
		}, []string{"name"},
	)
	stderrLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "stderr_lines_total",
			Help:      "Worker stderr lines observed, by classified severity.",
		}, []string{"name", "severity"},
	)
	portDiscoveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "port_discoveries_total",
			Help:      "Number of port marker lines that populated the registry.",
		}, []string{"name"},
	)
	parseAnomalies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "parse_anomalies_total",
			Help:      "Port marker lines that failed to parse.",
		}, []string{"name"},
	)
	terminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "terminations_total",
			Help:      "Worker terminations observed.",
		}, []string{"name"},
	)
	timeToPort = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "time_to_port_seconds",
			Help:      "Delay between spawn and port discovery.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name"},
	)
	boundPort = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "videonote",
			Subsystem: "sidecar",
			Name:      "bound_port",
			Help:      "Discovered worker port (0 until known).",
		}, []string{"name"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{
		spawns, spawnFailures, stdoutLines, stderrLines,
		portDiscoveries, parseAnomalies, terminations, timeToPort, boundPort,
	}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns the /metrics HTTP handler for the default registry.
func Handler() http.Handler { return promhttp.Handler() }

func IncSpawn(name string)        { spawns.WithLabelValues(name).Inc() }
func IncSpawnFailure(name string) { spawnFailures.WithLabelValues(name).Inc() }
func IncStdoutLine(name string)   { stdoutLines.WithLabelValues(name).Inc() }
func IncStderrLine(name, severity string) {
	stderrLines.WithLabelValues(name, severity).Inc()
}
func IncPortDiscovery(name string) { portDiscoveries.WithLabelValues(name).Inc() }
func IncParseAnomaly(name string)  { parseAnomalies.WithLabelValues(name).Inc() }
func IncTermination(name string)   { terminations.WithLabelValues(name).Inc() }
func ObserveTimeToPort(name string, seconds float64) {
	timeToPort.WithLabelValues(name).Observe(seconds)
}
func SetBoundPort(name string, port uint16) {
	boundPort.WithLabelValues(name).Set(float64(port))
}
