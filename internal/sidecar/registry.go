package sidecar

import (
	"errors"
	"sync"
)

// ErrPortNotAvailable is returned by Registry.Get (and Supervisor.Port) until
// the worker has announced its bound port. Callers must treat it as
// potentially permanent: a worker that never prints the marker stays
// unavailable for the whole run.
var ErrPortNotAvailable = errors.New("Sidecar port not yet available")

// Registry is the shared endpoint state: the worker's bound port, absent
// until discovered and immutable afterwards. Safe for concurrent Get calls
// racing the single Set performed by the output drain loop.
type Registry struct {
	mu    sync.Mutex
	port  uint16
	known bool
}

// Set stores the discovered port on first call and reports whether the value
// was stored. Later calls are no-ops; the first successful parse wins.
func (r *Registry) Set(port uint16) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.known {
		return false
	}
	r.port = port
	r.known = true
	return true
}

// Get returns the discovered port or ErrPortNotAvailable. It never blocks
// waiting for discovery; poll or subscribe to notifications instead.
func (r *Registry) Get() (uint16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known {
		return 0, ErrPortNotAvailable
	}
	return r.port, nil
}
