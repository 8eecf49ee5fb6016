package uci

import (
	"context"
	"fmt"
)

// Analyze submits job and blocks until it finishes, returning the last
// Info and the BestMove.
//
// If ctx ends first the job is cancelled before Analyze returns, so the
// engine is idle again for the next call.
func Analyze(ctx context.Context, engine Engine, job Job) (*Result, error) {
	searcher, err := engine.Submit(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	res, err := searcher.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// ctx is done, but the engine still has to be stopped.
			if cancelErr := engine.Cancel(context.WithoutCancel(ctx)); cancelErr != nil {
				return nil, fmt.Errorf("analyze: %w (cancel: %w)", err, cancelErr)
			}
		}

		return nil, fmt.Errorf("analyze: %w", err)
	}

	return res, nil
}
