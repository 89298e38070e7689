package relay

// The relay carries supervision facts to the presentation boundary as
// best-effort, fire-and-forget notifications. Delivery is not guaranteed:
// a GUI that needs the port reliably must poll the query endpoint.

// Type names match the boundary notification channels of the shell.
type Type string

const (
	TypePort       Type = "sidecar-port"
	TypeError      Type = "sidecar-error"
	TypeTerminated Type = "sidecar-terminated"
)

// Notification is one outward-facing event. It has no state after emission.
type Notification struct {
	Type     Type   `json:"type"`
	Port     uint16 `json:"port,omitempty"`
	Message  string `json:"message,omitempty"`
	ExitCode *int   `json:"exit_code,omitempty"`
}

// PortReady announces the discovered port, once per successful discovery.
func PortReady(port uint16) Notification {
	return Notification{Type: TypePort, Port: port}
}

// Error reports a spawn failure.
func Error(message string) Notification {
	return Notification{Type: TypeError, Message: message}
}

// Terminated reports worker exit; code is nil when killed by a signal.
func Terminated(code *int) Notification {
	return Notification{Type: TypeTerminated, ExitCode: code}
}

// Notifier receives notifications from the supervisor. Implementations must
// be lightweight and non-blocking; Publish must not panic.
type Notifier interface {
	Publish(Notification)
}

// Nop is the default notifier; it drops everything.
type Nop struct{}

func (Nop) Publish(Notification) {}
