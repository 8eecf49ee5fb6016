// Package config provides configuration types for the UCI engine client.
package config

import "context"

// Transport defines the line-oriented channel to an engine process.
// Implement this to drive a session over something other than a local
// subprocess, or to script engine replies in tests.
//
// The default implementation is subprocess.Host.
type Transport interface {
	// Submit enqueues one command. The transport appends exactly one newline.
	// It blocks only while the command queue is full.
	Submit(ctx context.Context, command string) error

	// NextLine blocks until the engine produces a line or its output ends.
	// End of output is reported as errors.ErrChannelClosed.
	NextLine(ctx context.Context) (string, error)

	// Done is closed once the engine process has exited.
	Done() <-chan struct{}

	// Err returns the process exit error once Done is closed, nil before that
	// or after a clean exit.
	Err() error

	// Close terminates the engine and releases resources.
	// It's safe to call Close multiple times.
	Close() error
}
