package sidecar

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/videonote/shell/internal/logger"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests require sh on Unix-like systems")
	}
}

func shSpec(name, script string) Spec {
	return Spec{Name: name, Command: "sh", Args: []string{"-c", script}}
}

func TestLaunchStreamsLinesInOrder(t *testing.T) {
	requireUnix(t)
	w, err := Launch(shSpec("order", "echo a; echo b; echo err 1>&2; exit 3"))
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	var out []string
	for line := range w.Stdout() {
		out = append(out, line)
	}
	if len(out) != 2 || out[0] != "a" || out[1] != "b" {
		t.Fatalf("stdout lines: %#v", out)
	}
	var errs []string
	for line := range w.Stderr() {
		errs = append(errs, line)
	}
	if len(errs) != 1 || errs[0] != "err" {
		t.Fatalf("stderr lines: %#v", errs)
	}
	st := <-w.Done()
	if st.Code == nil || *st.Code != 3 {
		t.Fatalf("exit status: %+v", st)
	}
}

func TestLaunchMissingExecutable(t *testing.T) {
	_, err := Launch(Spec{Name: "gone", Command: "/nonexistent/vn-sidecar-xyz"})
	if err == nil {
		t.Fatalf("expected spawn failure")
	}
	var se *SpawnError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SpawnError, got %T: %v", err, err)
	}
	if se.Unwrap() == nil {
		t.Fatalf("SpawnError should carry the underlying reason")
	}
}

func TestLaunchEmptyCommandRejected(t *testing.T) {
	_, err := Launch(Spec{Name: "empty"})
	var se *SpawnError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SpawnError, got %v", err)
	}
}

func TestLaunchCapturesOutputToFiles(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	spec := shSpec("cap", "echo hello-stdout; echo hello-stderr 1>&2")
	spec.Log = logger.Config{File: logger.FileConfig{Dir: dir}}

	w, err := Launch(spec)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	for range w.Stdout() {
	}
	for range w.Stderr() {
	}
	<-w.Done()

	b, err := os.ReadFile(filepath.Join(dir, "cap.stdout.log"))
	if err != nil || !strings.Contains(string(b), "hello-stdout") {
		t.Fatalf("stdout capture: %v content=%q", err, string(b))
	}
	b, err = os.ReadFile(filepath.Join(dir, "cap.stderr.log"))
	if err != nil || !strings.Contains(string(b), "hello-stderr") {
		t.Fatalf("stderr capture: %v content=%q", err, string(b))
	}
}

func TestWorkerStopTerminatesProcess(t *testing.T) {
	requireUnix(t)
	w, err := Launch(shSpec("stopme", "sleep 30"))
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	go func() {
		for range w.Stdout() {
		}
	}()
	go func() {
		for range w.Stderr() {
		}
	}()

	stopped := make(chan struct{})
	go func() {
		w.Stop(time.Second)
		close(stopped)
	}()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not terminate after Stop")
	}
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop did not return")
	}
}

func TestSpecLaunchArgsEnsuresAutoPort(t *testing.T) {
	s := Spec{Command: "vn-sidecar"}
	got := s.launchArgs()
	if len(got) != 2 || got[0] != "--port" || got[1] != "0" {
		t.Fatalf("auto port not appended: %#v", got)
	}

	s = Spec{Command: "vn-sidecar", Args: []string{"--port", "0", "--verbose"}}
	got = s.launchArgs()
	if len(got) != 3 {
		t.Fatalf("existing port flag should be respected: %#v", got)
	}

	s = Spec{Command: "vn-sidecar", Args: []string{"--port=0"}}
	if got := s.launchArgs(); len(got) != 1 {
		t.Fatalf("--port= form should be respected: %#v", got)
	}
}
