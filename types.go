package uci

import (
	"github.com/wagiedev/uci-engine-go/internal/config"
	"github.com/wagiedev/uci-engine-go/internal/protocol"
	"github.com/wagiedev/uci-engine-go/internal/session"
)

// Re-export types from internal packages

// ===== Options and Configuration =====

// Options configures how the engine process is launched and driven.
type Options = config.Options

// EngineOption is one engine setting, sent as "setoption name <Name> value <Value>".
// An empty Value sends the valueless form used by button options.
type EngineOption = config.EngineOption

// ===== Jobs =====

// Job describes one search: a position and a depth bound.
// It is an immutable value built with NewJob and its builder methods.
type Job = session.Job

// Searcher yields the events of one submitted job.
type Searcher = session.Searcher

// Result is the final Info and BestMove of a finished job.
type Result = session.Result

// NewJob returns a job searching the standard starting position to depth 10.
func NewJob() Job {
	return session.NewJob()
}

// ===== Session State =====

// State is the engine's position in the UCI lifecycle.
type State = session.State

const (
	// StateInit is the state of a freshly started engine.
	StateInit = session.StateInit
	// StateReady is the idle state; jobs may be submitted.
	StateReady = session.StateReady
	// StateSearch means one job is in flight.
	StateSearch = session.StateSearch
)

// Identity is what the engine reported about itself during Initialize.
type Identity = session.Identity

// ===== Events =====

// Event is one decoded engine message.
type Event = protocol.Event

// Info is a progress report emitted during a search.
type Info = protocol.Info

// BestMove is the terminal event of every job.
type BestMove = protocol.BestMove

// Score is an evaluation in centipawns or moves to mate.
type Score = protocol.Score

// ScoreKind distinguishes centipawn from mate scores.
type ScoreKind = protocol.ScoreKind

// Bound marks a score as exact or as a lower or upper bound.
type Bound = protocol.Bound

// WDL is a win/draw/loss estimate in permille.
type WDL = protocol.WDL

const (
	// ScoreCp is a centipawn score.
	ScoreCp = protocol.ScoreCp
	// ScoreMate is a mate distance in moves.
	ScoreMate = protocol.ScoreMate

	// BoundExact marks an exact score.
	BoundExact = protocol.BoundExact
	// BoundLower marks a fail-high score.
	BoundLower = protocol.BoundLower
	// BoundUpper marks a fail-low score.
	BoundUpper = protocol.BoundUpper
)

// Event type names reported by Event.EventType.
const (
	EventInfo     = protocol.EventInfo
	EventBestMove = protocol.EventBestMove
)

// Decode converts one engine output line into an Event.
// It returns a nil Event and nil error for lines it does not recognise.
func Decode(line string) (Event, error) {
	return protocol.Decode(line)
}

// LoadEngineOptionsFile reads engine options from a YAML file with an
// "options" mapping. Options are returned in file order.
func LoadEngineOptionsFile(path string) ([]EngineOption, error) {
	return config.LoadEngineOptionsFile(path)
}
