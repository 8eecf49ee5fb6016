// Package protocol implements the UCI line protocol as seen from the client.
//
// Decode turns one line of engine output into a typed Event (Info, BestMove,
// UCIOK, ReadyOK) or reports that the line carries nothing a typed consumer
// cares about. Decoding is stateless and never aborts on unknown input: only a
// recognized keyword with a missing or malformed value yields a DecodeError,
// scoped to that line.
//
// The command helpers (UCI, IsReady, SetOption, Position, GoDepth, Stop, ...)
// build outbound commands without the trailing newline; the transport adds
// exactly one.
//
// Example usage:
//
//	ev, err := protocol.Decode("bestmove e2e4 ponder e7e5")
//	if err != nil {
//	    log.Warn("skipping line", "error", err)
//	}
//	if best, ok := ev.(*protocol.BestMove); ok {
//	    fmt.Println(best.Move, best.Ponder)
//	}
package protocol
