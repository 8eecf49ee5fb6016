package protocol

import (
	"strconv"
	"strings"
)

// Fixed outbound commands.
const (
	UCI        = "uci"
	IsReady    = "isready"
	Stop       = "stop"
	Quit       = "quit"
	UCINewGame = "ucinewgame"
)

// DefaultDepth is the search depth used when a job does not set one.
const DefaultDepth = 10

// SetOption builds a setoption command. An empty value produces the
// valueless form used by button options such as "Clear Hash".
func SetOption(name, value string) string {
	if value == "" {
		return "setoption name " + name
	}

	return "setoption name " + name + " value " + value
}

// Position builds a position command. An empty fen selects the standard
// starting position; moves, when present, are appended after "moves".
func Position(fen string, moves []string) string {
	var b strings.Builder

	b.WriteString("position")

	if fen == "" {
		b.WriteString(" startpos")
	} else {
		b.WriteString(" fen ")
		b.WriteString(fen)
	}

	if len(moves) > 0 {
		b.WriteString(" moves ")
		b.WriteString(strings.Join(moves, " "))
	}

	return b.String()
}

// GoDepth builds a search command bounded by depth in plies.
func GoDepth(depth uint32) string {
	return "go depth " + strconv.FormatUint(uint64(depth), 10)
}
