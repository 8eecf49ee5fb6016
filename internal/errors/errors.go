package errors

import (
	"errors"
	"fmt"
)

// UCIError is the base interface for all typed engine client errors.
type UCIError interface {
	error
	IsUCIError() bool
}

// Compile-time verification that all error types implement UCIError.
var (
	_ UCIError = (*SpawnError)(nil)
	_ UCIError = (*ProcessError)(nil)
	_ UCIError = (*DecodeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrChannelClosed indicates the engine's command or line stream has ended,
	// either because the process exited or because a pipe broke.
	ErrChannelClosed = errors.New("engine channel closed")

	// ErrBusy indicates a job was submitted while another job is in flight.
	ErrBusy = errors.New("engine busy: a search is already running")

	// ErrNotReady indicates a job was submitted before the handshake and the
	// first synchronization completed.
	ErrNotReady = errors.New("engine not ready")

	// ErrSearching indicates an operation that requires an idle engine was
	// attempted while a job is in flight.
	ErrSearching = errors.New("operation not allowed while searching")

	// ErrEngineClosed indicates the engine has been closed and cannot be reused.
	ErrEngineClosed = errors.New("engine closed: engines are single-use, create a new one with NewEngine()")

	// ErrAlreadyStarted indicates Start was called on a running engine.
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrNotStarted indicates the engine process has not been started.
	ErrNotStarted = errors.New("engine not started")

	// ErrInvalidCommand indicates a command contained a line break and would
	// reach the engine as more than one line.
	ErrInvalidCommand = errors.New("invalid command: contains line break")
)

// SpawnError indicates the engine executable could not be launched or its
// standard streams could not be captured.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn engine %q: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsUCIError implements UCIError.
func (e *SpawnError) IsUCIError() bool { return true }

// ProcessError indicates the engine process exited abnormally.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("engine process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsUCIError implements UCIError.
func (e *ProcessError) IsUCIError() bool { return true }

// DecodeError indicates a recognized keyword in an engine output line had a
// missing or malformed value. The error is scoped to that one line.
type DecodeError struct {
	Line    string
	Keyword string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q value in line %q: %v", e.Keyword, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsUCIError implements UCIError.
func (e *DecodeError) IsUCIError() bool { return true }
