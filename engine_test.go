package uci_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	uci "github.com/wagiedev/uci-engine-go"
)

// scriptedTransport answers like a minimal engine that finds the same move
// for every position.
type scriptedTransport struct {
	mu     sync.Mutex
	sent   []string
	closed bool
	lines  chan string
	done   chan struct{}

	// hold leaves searches running until "stop".
	hold bool
	// infos is how many extra info lines a search reports.
	infos int
}

var _ uci.Transport = (*scriptedTransport)(nil)

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{
		lines: make(chan string, 64),
		done:  make(chan struct{}),
	}
}

func (s *scriptedTransport) Submit(_ context.Context, command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return uci.ErrChannelClosed
	}

	s.sent = append(s.sent, command)

	switch {
	case command == "uci":
		s.lines <- "id name Scripted"
		s.lines <- "uciok"
	case command == "isready":
		s.lines <- "readyok"
	case strings.HasPrefix(command, "go"):
		for i := range s.infos {
			s.lines <- fmt.Sprintf("info depth %d score cp %d pv g8f6", i+1, i)
		}

		s.lines <- "info depth 12 seldepth 15 score cp -31 upperbound wdl 40 900 60 nodes 1000 pv g8f6 c2c4"

		if !s.hold {
			s.lines <- "bestmove g8f6 ponder c2c4"
		}
	case command == "stop":
		s.lines <- "bestmove g8f6"
	}

	return nil
}

func (s *scriptedTransport) NextLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-s.lines:
		if !ok {
			return "", uci.ErrChannelClosed
		}

		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *scriptedTransport) Done() <-chan struct{} { return s.done }
func (s *scriptedTransport) Err() error            { return nil }

func (s *scriptedTransport) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.lines)
		close(s.done)
	}

	return nil
}

func (s *scriptedTransport) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.sent...)
}

func TestWithEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := uci.WithEngine(ctx, "stockfish", func(_ uci.Engine) error {
		t.Error("callback should not be called with cancelled context")

		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithEngine_ReadyAndClosed(t *testing.T) {
	tr := newScriptedTransport()

	var called bool

	err := uci.WithEngine(context.Background(), "scripted", func(e uci.Engine) error {
		called = true

		require.Equal(t, uci.StateReady, e.State())
		require.Equal(t, "Scripted", e.ID().Name)

		return nil
	}, uci.WithTransport(tr))
	require.NoError(t, err)
	require.True(t, called)

	require.Equal(t, []string{"uci", "isready", "quit"}, tr.commands())
}

func TestWithEngine_CallbackError(t *testing.T) {
	boom := errors.New("boom")

	err := uci.WithEngine(context.Background(), "scripted", func(uci.Engine) error {
		return boom
	}, uci.WithTransport(newScriptedTransport()))
	require.ErrorIs(t, err, boom)
}

func TestWithEngine_SpawnFailure(t *testing.T) {
	err := uci.WithEngine(context.Background(), "/nonexistent/engine-binary", func(uci.Engine) error {
		t.Error("callback should not run")

		return nil
	})

	_, ok := errors.AsType[*uci.SpawnError](err)
	require.True(t, ok, "expected SpawnError, got %v", err)
}

func TestAnalyze(t *testing.T) {
	tr := newScriptedTransport()

	err := uci.WithEngine(context.Background(), "scripted", func(e uci.Engine) error {
		res, err := uci.Analyze(context.Background(), e, uci.NewJob().Moves("d2d4"))
		require.NoError(t, err)

		require.Equal(t, "g8f6", res.Best.Move)
		require.Equal(t, "c2c4", res.Best.Ponder)
		require.Equal(t, uint32(12), res.Last.Depth)
		require.Equal(t, int32(-31), res.Last.Score.Value)
		require.Equal(t, uci.BoundUpper, res.Last.Score.Bound)
		require.Equal(t, uci.WDL{Win: 40, Draw: 900, Loss: 60}, res.Last.WDL)
		require.Equal(t, []string{"g8f6", "c2c4"}, res.Last.PV)

		return nil
	}, uci.WithTransport(tr))
	require.NoError(t, err)

	require.Contains(t, tr.commands(), "position startpos moves d2d4")
	require.Contains(t, tr.commands(), "go depth 10")
}

func TestAnalyze_ContextEndCancelsSearch(t *testing.T) {
	tr := newScriptedTransport()
	tr.hold = true

	err := uci.WithEngine(context.Background(), "scripted", func(e uci.Engine) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		_, err := uci.Analyze(ctx, e, uci.NewJob())
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, uci.StateReady, e.State())

		return nil
	}, uci.WithTransport(tr))
	require.NoError(t, err)

	require.Contains(t, tr.commands(), "stop")
}

func TestAnalyze_ContextEndWithBacklog(t *testing.T) {
	tr := newScriptedTransport()
	tr.hold = true
	tr.infos = 30

	err := uci.WithEngine(context.Background(), "scripted", func(e uci.Engine) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		_, err := uci.Analyze(ctx, e, uci.NewJob())
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, uci.StateReady, e.State())

		tr.mu.Lock()
		tr.hold = false
		tr.infos = 0
		tr.mu.Unlock()

		res, err := uci.Analyze(context.Background(), e, uci.NewJob())
		require.NoError(t, err)
		require.Equal(t, "g8f6", res.Best.Move)

		return nil
	}, uci.WithTransport(tr), uci.WithJobBuffer(4), uci.WithSyncTimeout(time.Second))
	require.NoError(t, err)
}

func TestAnalyze_Busy(t *testing.T) {
	tr := newScriptedTransport()
	tr.hold = true

	err := uci.WithEngine(context.Background(), "scripted", func(e uci.Engine) error {
		_, err := e.Submit(context.Background(), uci.NewJob())
		require.NoError(t, err)

		_, err = uci.Analyze(context.Background(), e, uci.NewJob())
		require.ErrorIs(t, err, uci.ErrBusy)

		return e.Cancel(context.Background())
	}, uci.WithTransport(tr))
	require.NoError(t, err)
}
