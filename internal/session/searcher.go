package session

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/wagiedev/uci-engine-go/internal/protocol"
)

// Result summarizes a finished job.
type Result struct {
	// Last is the final Info the engine reported, nil if it reported none.
	Last *protocol.Info
	// Best is the job's terminal BestMove.
	Best *protocol.BestMove
}

// Searcher is the pull-based handle for one job's events: zero or more Info
// events followed by exactly one BestMove. After the BestMove the sequence is
// exhausted and cannot be restarted.
//
// If the engine fails before producing a BestMove the sequence ends early and
// Next returns the failure (typically errors.ErrChannelClosed) instead of io.EOF.
type Searcher struct {
	job *job

	best *protocol.BestMove
	last *protocol.Info
}

// ID returns the job's unique identifier, as used in log output.
func (s *Searcher) ID() string {
	return s.job.id
}

// Job returns the job this searcher is consuming.
func (s *Searcher) Job() Job {
	return s.job.request
}

// Next blocks until the job's next event.
//
// It returns io.EOF once the BestMove has been delivered, or the error that
// ended the job early. Both are final: later calls return the same error.
func (s *Searcher) Next(ctx context.Context) (protocol.Event, error) {
	select {
	case ev, ok := <-s.job.events:
		if !ok {
			return nil, s.endErr()
		}

		switch e := ev.(type) {
		case *protocol.Info:
			s.last = e
		case *protocol.BestMove:
			s.best = e
		}

		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// endErr reports why the event stream closed.
func (s *Searcher) endErr() error {
	if s.best != nil {
		return io.EOF
	}

	// The stream is closed only after the job finished, so err is settled.
	<-s.job.done

	if s.job.err != nil {
		return s.job.err
	}

	return fmt.Errorf("search %s ended without bestmove: %w", s.job.id, io.ErrUnexpectedEOF)
}

// Events returns an iterator over the remaining events. It stops after the
// BestMove; an abnormal end is yielded as a final error.
func (s *Searcher) Events(ctx context.Context) iter.Seq2[protocol.Event, error] {
	return func(yield func(protocol.Event, error) bool) {
		for {
			ev, err := s.Next(ctx)
			if err == io.EOF {
				return
			}

			if err != nil {
				yield(nil, err)

				return
			}

			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Wait drains the remaining events and returns the final Info and BestMove.
func (s *Searcher) Wait(ctx context.Context) (*Result, error) {
	for _, err := range s.Events(ctx) {
		if err != nil {
			return nil, fmt.Errorf("wait for search %s: %w", s.job.id, err)
		}
	}

	if s.best == nil {
		// Events stops only on io.EOF, which implies a BestMove.
		return nil, fmt.Errorf("wait for search %s: %w", s.job.id, io.ErrUnexpectedEOF)
	}

	return &Result{Last: s.last, Best: s.best}, nil
}

// Done is closed when the job has finished and the session left Search.
func (s *Searcher) Done() <-chan struct{} {
	return s.job.done
}
