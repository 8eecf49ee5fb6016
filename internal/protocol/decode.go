package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wagiedev/uci-engine-go/internal/errors"
)

const (
	tokenUCIOK    = "uciok"
	tokenReadyOK  = "readyok"
	prefixInfo    = "info depth"
	prefixBest    = "bestmove"
	keywordPonder = "ponder"
)

// errMissingValue is wrapped by DecodeError when a keyword ends the line.
var errMissingValue = fmt.Errorf("missing value")

// Decode converts one line of engine output into a typed Event.
//
// It returns (nil, nil) for lines that carry no typed event (id, option,
// info string, copyright banners and so on). It returns a *errors.DecodeError
// only when a recognized keyword is followed by a missing or malformed value.
func Decode(line string) (Event, error) {
	line = strings.TrimSpace(line)

	switch {
	case line == tokenUCIOK:
		return &UCIOK{}, nil
	case line == tokenReadyOK:
		return &ReadyOK{}, nil
	case strings.HasPrefix(line, prefixInfo):
		return decodeInfo(line)
	case strings.HasPrefix(line, prefixBest):
		return decodeBestMove(line)
	default:
		return nil, nil
	}
}

// tokenScanner walks the whitespace separated tokens of a line.
type tokenScanner struct {
	line   string
	tokens []string
	pos    int
}

func (s *tokenScanner) next() (string, bool) {
	if s.pos >= len(s.tokens) {
		return "", false
	}

	tok := s.tokens[s.pos]
	s.pos++

	return tok, true
}

func (s *tokenScanner) value(keyword string) (string, error) {
	tok, ok := s.next()
	if !ok {
		return "", &errors.DecodeError{Line: s.line, Keyword: keyword, Err: errMissingValue}
	}

	return tok, nil
}

func (s *tokenScanner) uint32(keyword string) (uint32, error) {
	tok, err := s.value(keyword)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, &errors.DecodeError{Line: s.line, Keyword: keyword, Err: err}
	}

	return uint32(v), nil
}

func (s *tokenScanner) uint64(keyword string) (uint64, error) {
	tok, err := s.value(keyword)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, &errors.DecodeError{Line: s.line, Keyword: keyword, Err: err}
	}

	return v, nil
}

func (s *tokenScanner) int32(keyword string) (int32, error) {
	tok, err := s.value(keyword)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, &errors.DecodeError{Line: s.line, Keyword: keyword, Err: err}
	}

	return int32(v), nil
}

// decodeInfo scans an "info depth ..." line left to right. Unknown keywords
// are skipped; "pv" consumes the rest of the line.
func decodeInfo(line string) (Event, error) {
	s := &tokenScanner{line: line, tokens: strings.Fields(line)}
	info := &Info{}

	var err error

	for {
		tok, ok := s.next()
		if !ok {
			return info, nil
		}

		switch tok {
		case "depth":
			info.Depth, err = s.uint32(tok)
		case "seldepth":
			info.SelDepth, err = s.uint32(tok)
		case "multipv":
			info.MultiPV, err = s.uint32(tok)
		case "score":
			info.Score, err = s.score()
		case "lowerbound":
			info.Score.Bound = BoundLower
		case "upperbound":
			info.Score.Bound = BoundUpper
		case "wdl":
			info.WDL, err = s.wdl()
		case "nodes":
			info.Nodes, err = s.uint64(tok)
		case "nps":
			info.NPS, err = s.uint64(tok)
		case "hashfull":
			info.HashFull, err = s.uint32(tok)
		case "tbhits":
			info.TBHits, err = s.uint64(tok)
		case "time":
			info.Time, err = s.uint64(tok)
		case "pv":
			info.PV = append([]string(nil), s.tokens[s.pos:]...)

			return info, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

func (s *tokenScanner) score() (Score, error) {
	kind, err := s.value("score")
	if err != nil {
		return Score{}, err
	}

	switch kind {
	case "cp":
		v, err := s.int32("cp")
		if err != nil {
			return Score{}, err
		}

		return Cp(v), nil
	case "mate":
		v, err := s.int32("mate")
		if err != nil {
			return Score{}, err
		}

		return Mate(v), nil
	default:
		// The whole line is rejected: an Info with a guessed or missing
		// score would be worse than a skipped one.
		return Score{}, &errors.DecodeError{
			Line:    s.line,
			Keyword: "score",
			Err:     fmt.Errorf("unknown score kind %q", kind),
		}
	}
}

func (s *tokenScanner) wdl() (WDL, error) {
	var (
		w   WDL
		err error
	)

	if w.Win, err = s.uint64("wdl"); err != nil {
		return WDL{}, err
	}

	if w.Draw, err = s.uint64("wdl"); err != nil {
		return WDL{}, err
	}

	if w.Loss, err = s.uint64("wdl"); err != nil {
		return WDL{}, err
	}

	return w, nil
}

// decodeBestMove parses "bestmove <move> [ponder <move>]".
func decodeBestMove(line string) (Event, error) {
	s := &tokenScanner{line: line, tokens: strings.Fields(line)}

	if tok, _ := s.next(); tok != prefixBest {
		// "bestmoveX" shares the prefix but is not the keyword.
		return nil, nil
	}

	move, err := s.value(prefixBest)
	if err != nil {
		return nil, err
	}

	best := &BestMove{Move: move}

	if tok, ok := s.next(); ok && tok == keywordPonder {
		if best.Ponder, err = s.value(keywordPonder); err != nil {
			return nil, err
		}
	}

	return best, nil
}
