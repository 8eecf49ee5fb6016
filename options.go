package uci

import (
	"log/slog"
	"time"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithArgs sets extra command-line arguments for the engine executable.
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.Args = args
	}
}

// WithEnv provides additional environment variables for the engine process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithDir sets the working directory for the engine process.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

// ===== Queues =====

// WithCommandBuffer bounds the outbound command queue (default 32).
func WithCommandBuffer(size int) Option {
	return func(o *Options) {
		o.CommandBuffer = size
	}
}

// WithLineBuffer bounds the inbound line queue (default 32).
func WithLineBuffer(size int) Option {
	return func(o *Options) {
		o.LineBuffer = size
	}
}

// WithJobBuffer bounds each job's event stream (default 100).
func WithJobBuffer(size int) Option {
	return func(o *Options) {
		o.JobBuffer = size
	}
}

// ===== Timeouts =====

// WithHandshakeTimeout bounds the wait for "uciok". Zero waits indefinitely.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandshakeTimeout = d
	}
}

// WithSyncTimeout bounds each wait for "readyok", including the one that
// ends a cancelled search. Zero waits indefinitely.
func WithSyncTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.SyncTimeout = d
	}
}

// WithShutdownTimeout sets how long Close waits for the engine to exit
// before killing it (default 2s).
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ShutdownTimeout = d
	}
}

// ===== Diagnostics =====

// WithStderr sets a callback receiving each line the engine writes to stderr.
func WithStderr(handler func(string)) Option {
	return func(o *Options) {
		o.Stderr = handler
	}
}

// WithUnhandled sets a callback receiving each engine line that carries no
// event while a job runs, such as "info string" or "info currmove".
func WithUnhandled(handler func(string)) Option {
	return func(o *Options) {
		o.Unhandled = handler
	}
}

// ===== Advanced =====

// WithTransport injects a custom transport instead of spawning a subprocess.
// The engine path passed to Start is then only used in log output.
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}
