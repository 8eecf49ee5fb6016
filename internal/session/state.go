package session

// State is the session's position in the UCI lifecycle.
type State int32

const (
	// StateInit is the state of a freshly spawned engine.
	StateInit State = iota
	// StateReady is the idle state; jobs may be submitted.
	StateReady
	// StateSearch means one job is in flight.
	StateSearch
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReady:
		return "ready"
	case StateSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Identity is what the engine reported about itself during the handshake.
type Identity struct {
	Name   string
	Author string
	// Options holds the raw "option name ..." declarations in arrival order.
	Options []string
}
