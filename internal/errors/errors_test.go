package errors

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpawnError(t *testing.T) {
	root := errors.New("no such file or directory")
	err := &SpawnError{Path: "/opt/stockfish", Err: root}

	require.Equal(t, `failed to spawn engine "/opt/stockfish": no such file or directory`, err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsUCIError())
}

func TestProcessError_WithUnderlyingError(t *testing.T) {
	root := errors.New("signal: killed")
	err := &ProcessError{
		ExitCode: -1,
		Stderr:   "ignored when Err is set",
		Err:      root,
	}

	require.Equal(t, "engine process failed (exit -1): signal: killed", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsUCIError())
}

func TestProcessError_WithStderrOnly(t *testing.T) {
	err := &ProcessError{
		ExitCode: 1,
		Stderr:   "segmentation fault",
	}

	require.Equal(t, "engine process failed (exit 1): segmentation fault", err.Error())
	require.NoError(t, err.Unwrap())
	require.True(t, err.IsUCIError())
}

func TestDecodeError(t *testing.T) {
	_, root := strconv.ParseUint("x", 10, 32)
	err := &DecodeError{Line: "info depth x", Keyword: "depth", Err: root}

	require.Contains(t, err.Error(), `"depth"`)
	require.Contains(t, err.Error(), `"info depth x"`)
	require.ErrorIs(t, err, strconv.ErrSyntax)
	require.True(t, err.IsUCIError())

	target, ok := errors.AsType[*DecodeError](error(err))
	require.True(t, ok)
	require.Equal(t, "depth", target.Keyword)
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrChannelClosed,
		ErrBusy,
		ErrNotReady,
		ErrSearching,
		ErrEngineClosed,
		ErrAlreadyStarted,
		ErrNotStarted,
		ErrInvalidCommand,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}

			require.NotErrorIs(t, a, b)
		}
	}
}
