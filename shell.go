// Package shell embeds the VideoNote sidecar supervisor: launch the backend
// worker, discover its bound port from stdout, answer port queries, and relay
// lifecycle notifications to the presentation boundary.
package shell

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cfg "github.com/videonote/shell/internal/config"
	"github.com/videonote/shell/internal/history"
	hfactory "github.com/videonote/shell/internal/history/factory"
	"github.com/videonote/shell/internal/logs"
	"github.com/videonote/shell/internal/metrics"
	"github.com/videonote/shell/internal/relay"
	iapi "github.com/videonote/shell/internal/server"
	"github.com/videonote/shell/internal/sidecar"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Spec = sidecar.Spec

type Status = sidecar.Status

type Supervisor = sidecar.Supervisor

type Severity = sidecar.Severity

type Classifier = sidecar.Classifier

type Notification = relay.Notification

type Notifier = relay.Notifier

type Hub = relay.Hub

type Config = cfg.Config

type HistorySink = history.Sink

type State = sidecar.State

// Supervision states.
const (
	StateIdle       = sidecar.StateIdle
	StateLaunching  = sidecar.StateLaunching
	StateRunning    = sidecar.StateRunning
	StateTerminated = sidecar.StateTerminated
	StateFailed     = sidecar.StateFailed
)

// ErrPortNotAvailable is returned by Supervisor.Port until discovery.
var ErrPortNotAvailable = sidecar.ErrPortNotAvailable

// New creates an idle supervisor for the given worker spec.
func New(spec Spec) *Supervisor { return sidecar.New(spec) }

// NewHub creates a fan-out notifier for boundary listeners.
func NewHub() *Hub { return relay.NewHub() }

// LoadConfig reads a TOML shell configuration.
func LoadConfig(path string) (*Config, error) { return cfg.Load(path) }

// NewHistorySink builds a lifecycle audit sink from a DSN
// (sqlite, postgres, or clickhouse).
func NewHistorySink(dsn string) (HistorySink, error) { return hfactory.NewSinkFromDSN(dsn) }

// NewBoundaryServer starts the local HTTP boundary on addr.
func NewBoundaryServer(addr, basePath string, sup *Supervisor, hub *Hub, logDir string) *http.Server {
	return iapi.NewServer(addr, iapi.NewRouter(sup, hub, logDir, basePath))
}

// CollectLogs concatenates the captured worker log files under dir.
func CollectLogs(dir string) (string, error) { return logs.Collect(dir) }

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the
// default registry. It blocks in the caller goroutine.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
