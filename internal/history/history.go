package history

import (
	"context"
	"time"
)

// EventType defines the kind of supervision lifecycle event.
type EventType string

const (
	EventSpawned        EventType = "spawned"
	EventSpawnFailed    EventType = "spawn_failed"
	EventPortDiscovered EventType = "port_discovered"
	EventTerminated     EventType = "terminated"
)

// Record identifies the supervision run an event belongs to.
type Record struct {
	RunID string `json:"run_id"`
	Name  string `json:"name"`
	PID   int    `json:"pid"`
	Port  uint16 `json:"port"`
}

// Event is one lifecycle fact to be exported for audit/statistics.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Record     Record    `json:"record"`
	Detail     string    `json:"detail,omitempty"`
}

// Sink is a destination for lifecycle events. Implementations must be safe
// for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}
