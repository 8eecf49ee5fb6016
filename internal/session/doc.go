// Package session implements the UCI session state machine.
//
// A Session owns one engine transport and moves between three states:
// Init (spawned, handshake not yet confirmed), Ready (idle, accepts jobs) and
// Search (one job in flight). Ready is first entered when the handshake
// ("uci" answered by "uciok") has completed and a synchronization round trip
// ("isready" answered by "readyok") succeeds.
//
// Submitting a job serializes it as a position command and a go command and
// starts a pump goroutine that is the sole reader of engine output until the
// job's BestMove arrives. The pump relays Info and BestMove events to the
// job's own Searcher and returns the session to Ready. Submitting while a job
// is in flight is rejected with errors.ErrBusy; nothing is queued.
//
// Cancel sends "stop" followed by "isready" and waits until both the
// stop-induced BestMove and the "readyok" acknowledgement have been seen, so
// no trailing output of the cancelled job can leak into the next one.
//
// None of the waits has a built-in deadline; use context cancellation or the
// HandshakeTimeout and SyncTimeout options.
package session
