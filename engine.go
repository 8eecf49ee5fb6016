package uci

import "context"

// Engine drives one UCI chess engine process.
//
// The engine moves through three states: Init after Start, Ready once
// Initialize and a first Sync have completed, and Search while a job is in
// flight. At most one job runs at a time; conflicting calls fail fast with
// ErrBusy or ErrSearching rather than queueing.
//
// Lifecycle: Engines are single-use. After Close(), create a new engine with NewEngine().
//
// Example usage:
//
//	engine := uci.NewEngine()
//	defer engine.Close()
//
//	if err := engine.Start(ctx, "stockfish", uci.WithLogger(slog.Default())); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := engine.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := engine.Sync(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	searcher, err := engine.Submit(ctx, uci.NewJob().Moves("e2e4").Depth(18))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for ev, err := range searcher.Events(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    switch e := ev.(type) {
//	    case *uci.Info:
//	        fmt.Println(e.Depth, e.Score, e.PV)
//	    case *uci.BestMove:
//	        fmt.Println("best:", e.Move)
//	    }
//	}
type Engine interface {
	// Start launches the engine executable. A bare name is looked up in PATH
	// and common install directories. Returns *SpawnError on failure.
	Start(ctx context.Context, path string, opts ...Option) error

	// Initialize performs the "uci" handshake and records the engine's
	// identity. The engine stays in Init until the next Sync.
	Initialize(ctx context.Context) error

	// Configure sends one setoption command per option, in order.
	// Returns ErrSearching while a job is in flight.
	Configure(ctx context.Context, opts ...EngineOption) error

	// Sync waits until the engine has processed every earlier command.
	// The first Sync after Initialize moves the engine to Ready.
	Sync(ctx context.Context) error

	// NewGame tells the engine that following jobs belong to a new game.
	NewGame(ctx context.Context) error

	// Submit starts a job and returns its Searcher.
	// Returns ErrBusy while another job is in flight, ErrNotReady before Ready.
	Submit(ctx context.Context, job Job) (*Searcher, error)

	// Cancel stops the job in flight and returns once the engine is idle
	// again. It is a no-op when no job is running.
	Cancel(ctx context.Context) error

	// State returns the current lifecycle state.
	State() State

	// ID returns the identity the engine reported during Initialize.
	ID() Identity

	// Err returns a *ProcessError once the engine process has died on its own.
	Err() error

	// Close stops any running job, asks the engine to quit and reaps it.
	// After Close(), the engine cannot be reused. Safe to call multiple times.
	Close() error
}

// NewEngine creates a new engine handle.
//
// Call Start() with the executable path and options to launch it:
//
//	engine := uci.NewEngine()
//	err := engine.Start(ctx, "stockfish",
//	    uci.WithLogger(slog.Default()),
//	    uci.WithSyncTimeout(5*time.Second),
//	)
func NewEngine() Engine {
	return newEngineImpl()
}
