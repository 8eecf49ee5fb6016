package session

import (
	"slices"

	"github.com/wagiedev/uci-engine-go/internal/protocol"
)

// Job describes one search. It is an immutable value: every builder method
// returns a modified copy and leaves the receiver untouched.
//
// The zero Job searches the starting position to protocol.DefaultDepth.
type Job struct {
	fen   string
	moves []string
	depth uint32
}

// NewJob returns a job searching the standard starting position, with no
// moves applied, to the default depth of 10.
func NewJob() Job {
	return Job{depth: protocol.DefaultDepth}
}

// FEN sets an explicit starting position. The string is passed to the engine
// verbatim; it is not validated.
func (j Job) FEN(fen string) Job {
	j.fen = fen

	return j
}

// Moves appends move tokens to be played from the starting position.
func (j Job) Moves(moves ...string) Job {
	j.moves = append(slices.Clone(j.moves), moves...)

	return j
}

// Depth sets the search depth bound in plies.
func (j Job) Depth(depth uint32) Job {
	j.depth = depth

	return j
}

// Position returns the job's FEN, empty for the starting position.
func (j Job) Position() string { return j.fen }

// MoveList returns a copy of the job's moves.
func (j Job) MoveList() []string { return slices.Clone(j.moves) }

// SearchDepth returns the depth bound, applying the default to a zero Job.
func (j Job) SearchDepth() uint32 {
	if j.depth == 0 {
		return protocol.DefaultDepth
	}

	return j.depth
}

// Commands returns the position and go commands that start this job.
func (j Job) Commands() []string {
	return []string{
		protocol.Position(j.fen, j.moves),
		protocol.GoDepth(j.SearchDepth()),
	}
}
