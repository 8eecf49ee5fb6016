//go:build !windows

package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wagiedev/uci-engine-go/internal/config"
	"github.com/wagiedev/uci-engine-go/internal/errors"
	"github.com/wagiedev/uci-engine-go/internal/protocol"
)

var (
	fakeBuildOnce  sync.Once
	fakeBinaryPath string
	errFakeBuild   error
)

// buildFakeEngine compiles testdata/fake-engine once, on first use.
func buildFakeEngine() {
	dir, err := os.MkdirTemp("", "fake-engine-*")
	if err != nil {
		errFakeBuild = fmt.Errorf("tmpdir: %w", err)

		return
	}

	fakeBinaryPath = filepath.Join(dir, "fake-engine")

	cmd := exec.Command("go", "build", "-o", fakeBinaryPath, "./testdata/fake-engine/main.go")
	if out, err := cmd.CombinedOutput(); err != nil {
		errFakeBuild = fmt.Errorf("build fake engine: %w: %s", err, out)
		_ = os.RemoveAll(dir)
	}
}

// spawnFake starts the fake engine and drives it to Ready.
func spawnFake(t *testing.T, options *config.Options) *Session {
	t.Helper()

	if testing.Short() {
		t.Skip("builds a helper binary")
	}

	fakeBuildOnce.Do(buildFakeEngine)
	require.NoError(t, errFakeBuild)

	if options == nil {
		options = &config.Options{}
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	options.HandshakeTimeout = 5 * time.Second
	options.SyncTimeout = 5 * time.Second

	s := New()
	require.NoError(t, s.Start(context.Background(), fakeBinaryPath, options))

	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Sync(ctx))

	return s
}

func TestProcess_FullSearch(t *testing.T) {
	s := spawnFake(t, nil)
	ctx := context.Background()

	require.Equal(t, "FakeEngine 2.0", s.ID().Name)
	require.Len(t, s.ID().Options, 2)

	require.NoError(t, s.Configure(ctx,
		config.EngineOption{Name: "Hash", Value: "32"},
		config.EngineOption{Name: "Clear Hash"},
	))
	require.NoError(t, s.NewGame(ctx))

	searcher, err := s.Submit(ctx, NewJob().Moves("d2d4").Depth(6))
	require.NoError(t, err)

	var depths []uint32

	for ev, err := range searcher.Events(ctx) {
		require.NoError(t, err)

		if info, ok := ev.(*protocol.Info); ok {
			depths = append(depths, info.Depth)
		}
	}

	require.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, depths)

	res, err := searcher.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "e2e4", res.Best.Move)
	require.Equal(t, protocol.Cp(60), res.Last.Score)
	require.Equal(t, StateReady, s.State())
}

func TestProcess_CancelLongSearch(t *testing.T) {
	var (
		mu        sync.Mutex
		unhandled []string
	)

	s := spawnFake(t, &config.Options{
		Unhandled: func(line string) {
			mu.Lock()
			defer mu.Unlock()

			unhandled = append(unhandled, line)
		},
	})
	ctx := context.Background()

	searcher, err := s.Submit(ctx, NewJob().Depth(40))
	require.NoError(t, err)

	first, err := searcher.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, protocol.EventInfo, first.EventType())

	require.NoError(t, s.Cancel(ctx))
	require.Equal(t, StateReady, s.State())

	res, err := searcher.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "d2d4", res.Best.Move)

	// The engine is immediately usable again.
	next, err := s.Submit(ctx, NewJob().Depth(2))
	require.NoError(t, err)

	res, err = next.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "e2e4", res.Best.Move)

	mu.Lock()
	defer mu.Unlock()

	require.Contains(t, unhandled, "info string searching until stop")
}

func TestProcess_CrashMidSearch(t *testing.T) {
	s := spawnFake(t, nil)
	ctx := context.Background()

	searcher, err := s.Submit(ctx, NewJob().Depth(66))
	require.NoError(t, err)

	_, err = searcher.Wait(ctx)
	require.ErrorIs(t, err, errors.ErrChannelClosed)

	require.Eventually(t, func() bool {
		return s.Err() != nil
	}, 5*time.Second, 10*time.Millisecond)

	procErr, ok := stderrors.AsType[*errors.ProcessError](s.Err())
	require.True(t, ok, "expected ProcessError, got %v", s.Err())
	require.Equal(t, 3, procErr.ExitCode)
	require.Contains(t, procErr.Stderr, "segmentation fault")
}

func TestProcess_CloseMidSearchReaps(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	if testing.Short() {
		t.Skip("builds a helper binary")
	}

	fakeBuildOnce.Do(buildFakeEngine)
	require.NoError(t, errFakeBuild)

	s := New()
	require.NoError(t, s.Start(context.Background(), fakeBinaryPath, nil))

	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Sync(ctx))

	searcher, err := s.Submit(ctx, NewJob().Depth(50))
	require.NoError(t, err)

	require.NoError(t, s.Close())

	<-searcher.Done()
	require.NoError(t, s.Err(), "a requested shutdown is not an engine failure")
}
