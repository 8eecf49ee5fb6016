package uci

import (
	"context"
	"fmt"
)

// WithEngine manages engine lifecycle with automatic cleanup.
//
// This helper starts the engine at path, completes the handshake so the
// engine is Ready, executes the callback, and ensures Close() runs when done.
// If Close() fails, a warning is logged but does not override the callback's error.
//
// Example usage:
//
//	err := uci.WithEngine(ctx, "stockfish", func(e uci.Engine) error {
//	    res, err := uci.Analyze(ctx, e, uci.NewJob().Depth(20))
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(res.Best.Move)
//	    return nil
//	},
//	    uci.WithLogger(log),
//	)
func WithEngine(ctx context.Context, path string, fn func(Engine) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	engine := NewEngine()
	if err := engine.Start(ctx, path, opts...); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}

	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			log.Warn("failed to close engine", "error", closeErr)
		}
	}()

	if err := engine.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	if err := engine.Sync(ctx); err != nil {
		return fmt.Errorf("failed to sync engine: %w", err)
	}

	return fn(engine)
}
