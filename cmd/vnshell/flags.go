package main

import "time"

// Flag structs to decouple cobra from logic for testing.

// ServeFlags configures the serve command.
type ServeFlags struct {
	ConfigPath string
	// For tests: skip blocking on signals.
	NonBlocking bool
}

// LogsFlags configures the logs command.
type LogsFlags struct {
	ConfigPath string
	Dir        string // overrides the configured capture directory
}

// StopWait is how long serve waits for the worker to exit on shutdown
// before escalating to a hard kill.
const StopWait = 5 * time.Second
