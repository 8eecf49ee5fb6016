// Package subprocess hosts a UCI engine as a child process.
//
// Host owns the process and its standard streams. Outbound commands go
// through a bounded queue drained by a writer goroutine that newline-terminates
// and flushes each one; a reader goroutine publishes stdout lines to a bounded
// line queue. Both run for the process's lifetime and end independently on
// I/O failure, which consumers observe as errors.ErrChannelClosed rather than
// a crash. A reaper goroutine waits for the process and records its exit.
package subprocess
