package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIdempotent(t *testing.T) {
	r := prometheus.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(r); err != nil {
		t.Fatalf("second Register: %v", err)
	}
}

func TestCounters(t *testing.T) {
	IncSpawn("t1")
	IncSpawn("t1")
	if got := testutil.ToFloat64(spawns.WithLabelValues("t1")); got != 2 {
		t.Fatalf("spawns: %v", got)
	}

	IncStderrLine("t1", "error")
	IncStderrLine("t1", "info")
	if got := testutil.ToFloat64(stderrLines.WithLabelValues("t1", "error")); got != 1 {
		t.Fatalf("stderr error lines: %v", got)
	}

	IncPortDiscovery("t1")
	SetBoundPort("t1", 54213)
	if got := testutil.ToFloat64(boundPort.WithLabelValues("t1")); got != 54213 {
		t.Fatalf("bound port gauge: %v", got)
	}

	IncSpawnFailure("t1")
	IncParseAnomaly("t1")
	IncTermination("t1")
	IncStdoutLine("t1")
	ObserveTimeToPort("t1", 0.25)
}

func TestHandlerNotNil(t *testing.T) {
	if Handler() == nil {
		t.Fatalf("nil metrics handler")
	}
}
