package sidecar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// SpawnError wraps the reason the worker could not be started: missing
// executable, OS rejection, packaging misconfiguration. It is fatal for the
// launch attempt and never retried automatically.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn %s: %v", e.Command, e.Err) }
func (e *SpawnError) Unwrap() error { return e.Err }

// ExitStatus carries the worker's exit code. Code is nil when the process
// was killed by a signal or the code could not be determined.
type ExitStatus struct {
	Code *int
}

const lineChanDepth = 64

// Worker is a handle to one running worker subprocess. It owns the process
// for its lifetime; the handle is spent once the Done channel has fired.
// Output arrives as whole lines, ordered within each stream.
type Worker struct {
	cmd      *exec.Cmd
	stdout   chan string
	stderr   chan string
	done     chan ExitStatus
	waitDone chan struct{} // closed after cmd.Wait returns
	stopOnce sync.Once
}

// Stdout yields worker stdout lines; closed at process exit.
func (w *Worker) Stdout() <-chan string { return w.stdout }

// Stderr yields worker stderr lines; closed at process exit.
func (w *Worker) Stderr() <-chan string { return w.stderr }

// Done fires exactly once with the termination status.
func (w *Worker) Done() <-chan ExitStatus { return w.done }

func (w *Worker) PID() int {
	if w.cmd.Process == nil {
		return 0
	}
	return w.cmd.Process.Pid
}

// Stop asks the worker's process group to terminate, escalating to a hard
// kill after the wait window. The exit itself is still observed through the
// Done channel by whoever drains the worker.
func (w *Worker) Stop(wait time.Duration) {
	w.stopOnce.Do(func() {
		pid := w.PID()
		if pid == 0 {
			return
		}
		terminateGroup(pid)
		select {
		case <-w.waitDone:
		case <-time.After(wait):
			killGroup(pid)
			select {
			case <-w.waitDone:
			case <-time.After(200 * time.Millisecond):
				// best-effort
			}
		}
	})
}

// Launch starts the worker described by spec and wires its output streams.
// On success the returned Worker exposes three channels the caller drains
// concurrently with the rest of the application. On failure it returns a
// *SpawnError; the caller decides what to do, there is no retry here.
//
// Captured output is additionally persisted through the spec's log writers
// so the log retrieval boundary can read it back later.
func Launch(spec Spec) (*Worker, error) {
	if err := spec.Validate(); err != nil {
		return nil, &SpawnError{Command: spec.Command, Err: err}
	}

	// ok: command comes from operator-owned configuration
	// #nosec G204
	cmd := exec.Command(spec.Command, spec.launchArgs()...)
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	setSysProcAttr(cmd)

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Command: spec.Command, Err: err}
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Command: spec.Command, Err: err}
	}

	var outCapture, errCapture io.WriteCloser
	if spec.Log.File.Dir != "" || spec.Log.File.StdoutPath != "" || spec.Log.File.StderrPath != "" {
		if spec.Log.File.Dir != "" {
			_ = os.MkdirAll(spec.Log.File.Dir, 0o750)
		}
		outCapture, errCapture, _ = spec.Log.File.Writers(spec.Name)
	}

	if err := cmd.Start(); err != nil {
		closeQuiet(outCapture)
		closeQuiet(errCapture)
		return nil, &SpawnError{Command: spec.Command, Err: err}
	}

	w := &Worker{
		cmd:      cmd,
		stdout:   make(chan string, lineChanDepth),
		stderr:   make(chan string, lineChanDepth),
		done:     make(chan ExitStatus, 1),
		waitDone: make(chan struct{}),
	}

	var g errgroup.Group
	g.Go(func() error { return scanLines(outPipe, w.stdout, outCapture) })
	g.Go(func() error { return scanLines(errPipe, w.stderr, errCapture) })

	go func() {
		_ = g.Wait()
		err := cmd.Wait()
		closeQuiet(outCapture)
		closeQuiet(errCapture)
		close(w.waitDone)
		w.done <- exitStatus(err)
		close(w.done)
	}()

	return w, nil
}

// scanLines forwards whole lines from r to ch, teeing each line to the
// capture writer when one is configured. The channel is closed at EOF so the
// drain loop observes stream end before termination.
func scanLines(r io.Reader, ch chan<- string, capture io.Writer) error {
	defer close(ch)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if capture != nil {
			_, _ = capture.Write([]byte(line + "\n"))
		}
		ch <- line
	}
	return sc.Err()
}

func exitStatus(err error) ExitStatus {
	if err == nil {
		code := 0
		return ExitStatus{Code: &code}
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if c := ee.ExitCode(); c >= 0 {
			return ExitStatus{Code: &c}
		}
	}
	// Signal-killed or otherwise unknown.
	return ExitStatus{}
}

func closeQuiet(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
