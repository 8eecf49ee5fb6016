package protocol

import "fmt"

// Event types reported by EventType.
const (
	EventInfo     = "info"
	EventBestMove = "bestmove"
	EventUCIOK    = "uciok"
	EventReadyOK  = "readyok"
)

// Event is any typed line decoded from engine output.
// Use a type switch to determine the concrete type.
type Event interface {
	EventType() string
}

// Compile-time verification that all event types implement Event.
var (
	_ Event = (*Info)(nil)
	_ Event = (*BestMove)(nil)
	_ Event = (*UCIOK)(nil)
	_ Event = (*ReadyOK)(nil)
)

// ScoreKind distinguishes centipawn scores from mate distances.
type ScoreKind int

const (
	// ScoreCp is an evaluation in centipawns from the side to move.
	ScoreCp ScoreKind = iota
	// ScoreMate is a forced mate in N moves; negative N means the side to move is mated.
	ScoreMate
)

// Bound qualifies a score reported before the search window resolved.
type Bound int

const (
	// BoundExact is a score inside the search window.
	BoundExact Bound = iota
	// BoundLower means the true score is at least the reported value.
	BoundLower
	// BoundUpper means the true score is at most the reported value.
	BoundUpper
)

// Score is either a centipawn value or a mate distance.
type Score struct {
	Kind  ScoreKind
	Value int32
	Bound Bound
}

// Cp returns a centipawn score.
func Cp(value int32) Score {
	return Score{Kind: ScoreCp, Value: value}
}

// Mate returns a mate-in-N score.
func Mate(moves int32) Score {
	return Score{Kind: ScoreMate, Value: moves}
}

// IsMate reports whether the score is a mate distance.
func (s Score) IsMate() bool {
	return s.Kind == ScoreMate
}

func (s Score) String() string {
	var bound string

	switch s.Bound {
	case BoundLower:
		bound = " lowerbound"
	case BoundUpper:
		bound = " upperbound"
	}

	if s.Kind == ScoreMate {
		return fmt.Sprintf("mate %d%s", s.Value, bound)
	}

	return fmt.Sprintf("cp %d%s", s.Value, bound)
}

// WDL holds win/draw/loss expectations in per mille, as sent with UCI_ShowWDL.
type WDL struct {
	Win  uint64
	Draw uint64
	Loss uint64
}

// Info is a search progress snapshot. Each Info supersedes the previous one
// for the same job.
type Info struct {
	Depth    uint32
	SelDepth uint32
	MultiPV  uint32
	Score    Score
	WDL      WDL
	Nodes    uint64
	NPS      uint64
	HashFull uint32
	TBHits   uint64
	// Time is the elapsed search time in milliseconds.
	Time uint64
	// PV is the principal variation as engine move tokens.
	PV []string
}

// EventType implements Event.
func (*Info) EventType() string { return EventInfo }

// BestMove is the terminal result of a search.
type BestMove struct {
	Move string
	// Ponder is empty when the engine suggested no ponder move.
	Ponder string
}

// EventType implements Event.
func (*BestMove) EventType() string { return EventBestMove }

// HasPonder reports whether a ponder move was suggested.
func (b *BestMove) HasPonder() bool {
	return b.Ponder != ""
}

// UCIOK signals the end of the engine's handshake reply.
type UCIOK struct{}

// EventType implements Event.
func (*UCIOK) EventType() string { return EventUCIOK }

// ReadyOK acknowledges an isready synchronization request.
type ReadyOK struct{}

// EventType implements Event.
func (*ReadyOK) EventType() string { return EventReadyOK }
