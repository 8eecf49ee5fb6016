//go:build integration

package integration

import (
	"errors"
	"os"
	"testing"

	uci "github.com/wagiedev/uci-engine-go"
)

// enginePath returns the engine under test, from UCI_ENGINE or "stockfish".
func enginePath() string {
	if path := os.Getenv("UCI_ENGINE"); path != "" {
		return path
	}

	return "stockfish"
}

// skipIfEngineNotInstalled skips the test if the error indicates the engine is missing.
func skipIfEngineNotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*uci.SpawnError](err); ok {
		t.Skipf("UCI engine %q not installed", enginePath())
	}
}
