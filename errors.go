package uci

import "github.com/wagiedev/uci-engine-go/internal/errors"

// Re-export error types from internal package

// SpawnError indicates the engine executable could not be found or started.
type SpawnError = errors.SpawnError

// ProcessError indicates the engine process exited abnormally.
type ProcessError = errors.ProcessError

// DecodeError indicates a recognised engine line carried a malformed value.
type DecodeError = errors.DecodeError

// UCIError is the base interface for all typed errors of this package.
type UCIError = errors.UCIError

// Re-export sentinel errors from internal package.
var (
	// ErrChannelClosed indicates the engine's input or output stream has ended.
	ErrChannelClosed = errors.ErrChannelClosed

	// ErrBusy indicates a job was submitted while another is in flight.
	ErrBusy = errors.ErrBusy

	// ErrNotReady indicates a job was submitted before the handshake completed.
	ErrNotReady = errors.ErrNotReady

	// ErrSearching indicates an operation that needs an idle engine was
	// attempted while a job is in flight.
	ErrSearching = errors.ErrSearching

	// ErrEngineClosed indicates the engine has been closed and cannot be reused.
	ErrEngineClosed = errors.ErrEngineClosed

	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.ErrAlreadyStarted

	// ErrNotStarted indicates an operation was attempted before Start.
	ErrNotStarted = errors.ErrNotStarted

	// ErrInvalidCommand indicates a command contained a line break.
	ErrInvalidCommand = errors.ErrInvalidCommand
)
