package config

import (
	"log/slog"
	"time"
)

// Default queue sizes and timeouts.
const (
	DefaultCommandBuffer   = 32
	DefaultLineBuffer      = 32
	DefaultJobBuffer       = 100
	DefaultShutdownTimeout = 2 * time.Second
)

// EngineOption is one engine setting sent as "setoption name <Name> value <Value>".
type EngineOption struct {
	Name  string
	Value string
}

// Options configures how the engine process is launched and driven.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Args are extra command-line arguments for the engine executable.
	Args []string

	// Env provides additional environment variables for the engine process.
	Env map[string]string

	// Dir sets the working directory for the engine process.
	// If empty, the caller's working directory is used.
	Dir string

	// CommandBuffer bounds the outbound command queue. Submitting blocks while it is full.
	CommandBuffer int

	// LineBuffer bounds the inbound line queue.
	LineBuffer int

	// JobBuffer bounds each job's event stream.
	JobBuffer int

	// Stderr is called with each line the engine writes to stderr.
	Stderr func(string)

	// Unhandled is called with each line that decodes to no event while a job runs.
	Unhandled func(string)

	// HandshakeTimeout bounds the wait for "uciok". Zero waits indefinitely.
	HandshakeTimeout time.Duration

	// SyncTimeout bounds each wait for "readyok". Zero waits indefinitely.
	SyncTimeout time.Duration

	// ShutdownTimeout is how long Close waits for the engine to exit after
	// "quit" before killing it.
	ShutdownTimeout time.Duration

	// Transport replaces the subprocess transport, mainly for tests.
	Transport Transport
}

// WithDefaults returns a copy of o with zero sizes and timeouts replaced by
// their defaults. A nil receiver yields all defaults.
func (o *Options) WithDefaults() *Options {
	out := &Options{}
	if o != nil {
		*out = *o
	}

	if out.CommandBuffer <= 0 {
		out.CommandBuffer = DefaultCommandBuffer
	}

	if out.LineBuffer <= 0 {
		out.LineBuffer = DefaultLineBuffer
	}

	if out.JobBuffer <= 0 {
		out.JobBuffer = DefaultJobBuffer
	}

	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = DefaultShutdownTimeout
	}

	return out
}
