package uci

import (
	"context"

	"github.com/wagiedev/uci-engine-go/internal/session"
)

// engineWrapper wraps the internal session to adapt it to the public interface.
type engineWrapper struct {
	impl *session.Session
}

// Compile-time check that *engineWrapper implements the Engine interface.
var _ Engine = (*engineWrapper)(nil)

func newEngineImpl() Engine {
	return &engineWrapper{impl: session.New()}
}

func (e *engineWrapper) Start(ctx context.Context, path string, opts ...Option) error {
	return e.impl.Start(ctx, path, applyOptions(opts))
}

func (e *engineWrapper) Initialize(ctx context.Context) error {
	return e.impl.Initialize(ctx)
}

func (e *engineWrapper) Configure(ctx context.Context, opts ...EngineOption) error {
	return e.impl.Configure(ctx, opts...)
}

func (e *engineWrapper) Sync(ctx context.Context) error {
	return e.impl.Sync(ctx)
}

func (e *engineWrapper) NewGame(ctx context.Context) error {
	return e.impl.NewGame(ctx)
}

func (e *engineWrapper) Submit(ctx context.Context, job Job) (*Searcher, error) {
	return e.impl.Submit(ctx, job)
}

func (e *engineWrapper) Cancel(ctx context.Context) error {
	return e.impl.Cancel(ctx)
}

func (e *engineWrapper) State() State {
	return e.impl.State()
}

func (e *engineWrapper) ID() Identity {
	return e.impl.ID()
}

func (e *engineWrapper) Err() error {
	return e.impl.Err()
}

func (e *engineWrapper) Close() error {
	return e.impl.Close()
}
