package sidecar

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/videonote/shell/internal/history"
	"github.com/videonote/shell/internal/metrics"
	"github.com/videonote/shell/internal/relay"
)

// State of one supervision run.
type State string

const (
	StateIdle       State = "idle"
	StateLaunching  State = "launching"
	StateRunning    State = "running"
	StateTerminated State = "terminated"
	StateFailed     State = "failed"
)

// Status is a point-in-time snapshot of the supervision run.
type Status struct {
	Name      string    `json:"name"`
	State     State     `json:"state"`
	RunID     string    `json:"run_id,omitempty"`
	PID       int       `json:"pid,omitempty"`
	Port      uint16    `json:"port,omitempty"`
	PortKnown bool      `json:"port_known"`
	StartedAt time.Time `json:"started_at,omitempty"`
	StoppedAt time.Time `json:"stopped_at,omitempty"`
	ExitCode  *int      `json:"exit_code,omitempty"`
}

// Supervisor launches the worker once and observes it until it exits.
// There is no pool and no restart policy: when the worker is gone,
// supervision for this instance is over.
//
// One goroutine drains the worker's output for the whole run. The drain loop
// is never cancelled from outside; it ends only on worker exit or a spawn
// failure. The registry lock is never held while waiting on a stream.
type Supervisor struct {
	spec     Spec
	registry Registry
	notifier relay.Notifier
	classify Classifier
	sink     history.Sink
	logger   *slog.Logger

	mu      sync.Mutex
	status  Status
	worker  *Worker
	started bool
}

// New creates an idle supervisor for spec with a no-op notifier, the default
// stderr classifier, and no history sink.
func New(spec Spec) *Supervisor {
	if spec.Name == "" {
		spec.Name = "sidecar"
	}
	return &Supervisor{
		spec:     spec,
		notifier: relay.Nop{},
		classify: DefaultClassifier,
		logger:   slog.Default(),
		status:   Status{Name: spec.Name, State: StateIdle},
	}
}

// SetNotifier replaces the boundary notifier. Must be called before Start.
func (s *Supervisor) SetNotifier(n relay.Notifier) {
	if n != nil {
		s.notifier = n
	}
}

// SetClassifier replaces the stderr severity policy. Must be called before Start.
func (s *Supervisor) SetClassifier(c Classifier) {
	if c != nil {
		s.classify = c
	}
}

// SetHistorySink configures lifecycle event persistence. Must be called before Start.
func (s *Supervisor) SetHistorySink(sink history.Sink) { s.sink = sink }

// SetLogger replaces the structured logger. Must be called before Start.
func (s *Supervisor) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Start launches the worker and begins draining its output in a dedicated
// goroutine. A spawn failure is terminal for the run: it is published as a
// sidecar-error notification and returned; there is no retry.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("sidecar: supervisor already started")
	}
	s.started = true
	runID := uuid.NewString()
	s.status.State = StateLaunching
	s.status.RunID = runID
	s.mu.Unlock()

	s.logger.Info("launching sidecar",
		slog.String("name", s.spec.Name),
		slog.String("command", s.spec.Command),
		slog.String("run_id", runID))

	w, err := Launch(s.spec)
	if err != nil {
		s.mu.Lock()
		s.status.State = StateFailed
		s.mu.Unlock()
		metrics.IncSpawnFailure(s.spec.Name)
		s.logger.Error("sidecar spawn failed", slog.Any("error", err))
		s.notifier.Publish(relay.Error(err.Error()))
		s.record(history.EventSpawnFailed, err.Error())
		return err
	}

	s.mu.Lock()
	s.worker = w
	s.status.State = StateRunning
	s.status.PID = w.PID()
	s.status.StartedAt = time.Now()
	s.mu.Unlock()

	metrics.IncSpawn(s.spec.Name)
	s.logger.Info("sidecar running", slog.Int("pid", w.PID()))
	s.record(history.EventSpawned, "")

	go s.drain(w.Stdout(), w.Stderr(), w.Done())
	return nil
}

// drain consumes the stream channels in per-stream order until both close,
// then observes termination. It is deliberately free of any external
// cancellation: worker exit is its only terminal condition.
func (s *Supervisor) drain(stdout, stderr <-chan string, done <-chan ExitStatus) {
	for stdout != nil || stderr != nil {
		select {
		case line, ok := <-stdout:
			if !ok {
				stdout = nil
				continue
			}
			s.onStdout(line)
		case line, ok := <-stderr:
			if !ok {
				stderr = nil
				continue
			}
			s.onStderr(line)
		}
	}
	s.onTerminated(<-done)
}

func (s *Supervisor) onStdout(line string) {
	metrics.IncStdoutLine(s.spec.Name)
	s.logger.Debug("sidecar stdout", slog.String("line", line))

	port, found, err := parsePortLine(line)
	if !found {
		return
	}
	if err != nil {
		// ParseAnomaly: the worker keeps running, a later marker may still parse.
		metrics.IncParseAnomaly(s.spec.Name)
		s.logger.Warn("sidecar port marker did not parse",
			slog.String("line", line), slog.Any("error", err))
		return
	}
	if !s.registry.Set(port) {
		s.logger.Debug("duplicate port marker ignored", slog.Int("port", int(port)))
		return
	}

	s.mu.Lock()
	s.status.Port = port
	s.status.PortKnown = true
	startedAt := s.status.StartedAt
	s.mu.Unlock()

	metrics.IncPortDiscovery(s.spec.Name)
	metrics.SetBoundPort(s.spec.Name, port)
	if !startedAt.IsZero() {
		metrics.ObserveTimeToPort(s.spec.Name, time.Since(startedAt).Seconds())
	}
	s.logger.Info("sidecar port discovered", slog.Int("port", int(port)))
	s.notifier.Publish(relay.PortReady(port))
	s.record(history.EventPortDiscovered, "")
}

func (s *Supervisor) onStderr(line string) {
	sev := s.classify(line)
	metrics.IncStderrLine(s.spec.Name, sev.String())
	if sev == SeverityError {
		s.logger.Error("sidecar stderr", slog.String("line", line))
	} else {
		s.logger.Info("sidecar stderr", slog.String("line", line))
	}
}

func (s *Supervisor) onTerminated(st ExitStatus) {
	s.mu.Lock()
	s.status.State = StateTerminated
	s.status.StoppedAt = time.Now()
	s.status.ExitCode = st.Code
	s.mu.Unlock()

	metrics.IncTermination(s.spec.Name)
	if st.Code != nil {
		s.logger.Info("sidecar terminated", slog.Int("exit_code", *st.Code))
	} else {
		s.logger.Info("sidecar terminated", slog.String("exit_code", "unknown"))
	}
	s.notifier.Publish(relay.Terminated(st.Code))
	s.record(history.EventTerminated, "")
}

// Port answers the query endpoint: the discovered port, or
// ErrPortNotAvailable while (or forever if) the marker has not arrived.
// Termination does not clear the registry; the last-known port stays
// readable.
func (s *Supervisor) Port() (uint16, error) {
	return s.registry.Get()
}

// Snapshot returns a copy of the current status.
func (s *Supervisor) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Stop asks a running worker to terminate, escalating after wait. The drain
// loop still observes the exit and emits the terminated notification.
func (s *Supervisor) Stop(wait time.Duration) {
	s.mu.Lock()
	w := s.worker
	s.mu.Unlock()
	if w != nil {
		w.Stop(wait)
	}
}

func (s *Supervisor) record(t history.EventType, detail string) {
	if s.sink == nil {
		return
	}
	s.mu.Lock()
	rec := history.Record{
		RunID: s.status.RunID,
		Name:  s.status.Name,
		PID:   s.status.PID,
		Port:  s.status.Port,
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	e := history.Event{Type: t, OccurredAt: time.Now(), Record: rec, Detail: detail}
	if err := s.sink.Send(ctx, e); err != nil {
		s.logger.Warn("history sink send failed",
			slog.String("event", string(t)), slog.Any("error", err))
	}
}
