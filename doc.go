// Package uci drives UCI chess engines such as Stockfish from Go.
//
// An Engine owns one engine subprocess. It writes commands to the engine's
// stdin from a bounded queue, reads its stdout line by line, decodes the
// lines into typed events and runs searches one job at a time.
//
// # Basic Usage
//
// For a one-off analysis, use WithEngine and Analyze:
//
//	ctx := context.Background()
//	err := uci.WithEngine(ctx, "stockfish", func(e uci.Engine) error {
//	    res, err := uci.Analyze(ctx, e, uci.NewJob().Moves("e2e4", "e7e5").Depth(18))
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Printf("%s (%s)\n", res.Best.Move, res.Last.Score)
//	    return nil
//	})
//
// # Streaming Searches
//
// Submit returns a Searcher that yields Info events as the engine reports
// progress, followed by exactly one BestMove:
//
//	searcher, err := engine.Submit(ctx, uci.NewJob().FEN(fen).Depth(25))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for ev, err := range searcher.Events(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if info, ok := ev.(*uci.Info); ok {
//	        fmt.Println(info.Depth, info.Score)
//	    }
//	}
//
// Cancel stops a running search. It returns once the engine has delivered
// the BestMove for the stopped search and confirmed it is idle.
//
// # Logging
//
// For detailed operation tracking, use WithLogger. Raw engine traffic is
// logged at debug level:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	engine.Start(ctx, "stockfish", uci.WithLogger(logger))
//
// # Error Handling
//
// The package provides typed errors for different failure scenarios:
//
//	if err := engine.Start(ctx, "stockfish"); err != nil {
//	    if spawnErr, ok := errors.AsType[*uci.SpawnError](err); ok {
//	        log.Fatalf("cannot launch %s: %v", spawnErr.Path, spawnErr.Err)
//	    }
//	    log.Fatal(err)
//	}
//
//	if procErr, ok := errors.AsType[*uci.ProcessError](engine.Err()); ok {
//	    log.Printf("engine crashed with exit code %d: %s", procErr.ExitCode, procErr.Stderr)
//	}
package uci
