package factory

import (
	"context"
	"testing"
	"time"

	"github.com/videonote/shell/internal/history"
)

func TestNewSinkFromDSNSQLite(t *testing.T) {
	for _, dsn := range []string{"sqlite://:memory:", ":memory:"} {
		sink, err := NewSinkFromDSN(dsn)
		if err != nil {
			t.Fatalf("%q: %v", dsn, err)
		}
		e := history.Event{
			Type:       history.EventSpawned,
			OccurredAt: time.Now(),
			Record:     history.Record{RunID: "r", Name: "n"},
		}
		if err := sink.Send(context.Background(), e); err != nil {
			t.Fatalf("%q send: %v", dsn, err)
		}
		_ = sink.Close()
	}
}

func TestNewSinkFromDSNEmpty(t *testing.T) {
	if _, err := NewSinkFromDSN("   "); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}

func TestNewSinkFromDSNUnsupported(t *testing.T) {
	if _, err := NewSinkFromDSN("redis://localhost:6379"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestNewSinkFromDSNClickHouseMissingHost(t *testing.T) {
	if _, err := NewSinkFromDSN("clickhouse://"); err == nil {
		t.Fatalf("expected error for missing host")
	}
}
