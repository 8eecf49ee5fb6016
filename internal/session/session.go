package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/uci-engine-go/internal/config"
	"github.com/wagiedev/uci-engine-go/internal/errors"
	"github.com/wagiedev/uci-engine-go/internal/protocol"
	"github.com/wagiedev/uci-engine-go/internal/subprocess"
)

// job is the session-side record of one submitted Job.
type job struct {
	id      string
	request Job
	events  chan protocol.Event
	done    chan struct{}

	// cancelled is closed when cancelling is set. Guarded by Session.mu.
	cancelled  chan struct{}
	cancelling bool

	// err is written once before done is closed.
	err error
}

// Session drives one engine through the UCI lifecycle.
//
// All methods are safe for concurrent use, but the engine is a single
// resource: operations that wait for engine replies exclude each other and
// a running job, and conflicting calls fail fast with errors.ErrBusy or
// errors.ErrSearching instead of queueing.
type Session struct {
	log       *slog.Logger
	options   *config.Options
	transport config.Transport

	// ctx is cancelled by Close to release pumps blocked on the transport.
	ctx    context.Context
	cancel context.CancelFunc
	jobs   errgroup.Group

	// sending holds one token; its owner writes a command batch. Batches are
	// written without mu so a stalled engine stdin never blocks Close.
	sending chan struct{}

	mu         sync.Mutex
	state      State
	negotiated bool
	foreground bool
	current    *job
	identity   Identity
	started    bool
	closed     bool

	closeOnce sync.Once
}

// New creates a session. It is not connected; call Start.
func New() *Session {
	return &Session{sending: make(chan struct{}, 1)}
}

// Start launches the engine at path, or adopts options.Transport when set.
// The session is left in Init; call Initialize and Sync to reach Ready.
//
// Returns *errors.SpawnError if the engine cannot be launched.
func (s *Session) Start(ctx context.Context, path string, options *config.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrEngineClosed
	}

	if s.started {
		return errors.ErrAlreadyStarted
	}

	options = options.WithDefaults()

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.log = log.With("component", "session")
	s.options = options

	transport := options.Transport
	if transport == nil {
		host, err := subprocess.Spawn(ctx, log, path, options)
		if err != nil {
			return fmt.Errorf("start engine: %w", err)
		}

		transport = host
	} else {
		s.log.Debug("Using injected custom transport")
	}

	s.transport = transport
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.state = StateInit
	s.started = true

	s.log.Info("Session started", "path", path)

	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// ID returns the identity captured during Initialize.
func (s *Session) ID() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.identity
	id.Options = slices.Clone(id.Options)

	return id
}

// Err returns the engine's exit error once it has terminated abnormally.
func (s *Session) Err() error {
	s.mu.Lock()
	transport := s.transport
	s.mu.Unlock()

	if transport == nil {
		return nil
	}

	return transport.Err()
}

// beginForeground claims the transport's line stream for a caller that
// waits for a reply.
func (s *Session) beginForeground() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usableLocked(); err != nil {
		return err
	}

	if s.state == StateSearch {
		return errors.ErrSearching
	}

	if s.foreground {
		return errors.ErrBusy
	}

	s.foreground = true

	return nil
}

func (s *Session) endForeground() {
	s.mu.Lock()
	s.foreground = false
	s.mu.Unlock()
}

func (s *Session) usableLocked() error {
	if s.closed {
		return errors.ErrEngineClosed
	}

	if !s.started {
		return errors.ErrNotStarted
	}

	return nil
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}

	return context.WithCancel(ctx)
}

// Initialize sends "uci" and waits for "uciok", recording the engine's
// id and option declarations on the way. It does not enter Ready by itself;
// the first successful Sync afterwards does.
func (s *Session) Initialize(ctx context.Context) error {
	if err := s.beginForeground(); err != nil {
		return err
	}
	defer s.endForeground()

	ctx, cancel := withTimeout(ctx, s.options.HandshakeTimeout)
	defer cancel()

	s.log.Debug("Starting UCI handshake")

	if err := s.transport.Submit(ctx, protocol.UCI); err != nil {
		return fmt.Errorf("send uci: %w", err)
	}

	var id Identity

	err := s.waitFor(ctx, protocol.EventUCIOK, func(line string) {
		if key, value, ok := protocol.ParseID(line); ok {
			switch key {
			case protocol.IDName:
				id.Name = value
			case protocol.IDAuthor:
				id.Author = value
			}

			return
		}

		if protocol.IsOptionDecl(line) {
			id.Options = append(id.Options, line)
		}
	})
	if err != nil {
		return fmt.Errorf("wait for uciok: %w", err)
	}

	s.mu.Lock()
	s.negotiated = true
	s.identity = id
	s.mu.Unlock()

	s.log.Info("UCI handshake complete", "engine", id.Name, "author", id.Author, "options", len(id.Options))

	return nil
}

// Configure sends one setoption command per option, in order.
// It is rejected with errors.ErrSearching while a job is in flight.
func (s *Session) Configure(ctx context.Context, opts ...config.EngineOption) error {
	if err := s.beginForeground(); err != nil {
		return err
	}
	defer s.endForeground()

	for _, opt := range opts {
		if err := s.transport.Submit(ctx, protocol.SetOption(opt.Name, opt.Value)); err != nil {
			return fmt.Errorf("set option %q: %w", opt.Name, err)
		}
	}

	s.log.Debug("Engine configured", "options", len(opts))

	return nil
}

// Sync sends "isready" and waits for "readyok", confirming every earlier
// command has been processed. The first Sync after Initialize moves the
// session from Init to Ready.
func (s *Session) Sync(ctx context.Context) error {
	if err := s.beginForeground(); err != nil {
		return err
	}
	defer s.endForeground()

	if err := s.readyRoundTrip(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.negotiated && s.state == StateInit {
		s.state = StateReady
		s.log.Info("Engine ready")
	}

	return nil
}

// NewGame tells the engine the next job belongs to a different game and
// waits for it to acknowledge.
func (s *Session) NewGame(ctx context.Context) error {
	if err := s.beginForeground(); err != nil {
		return err
	}
	defer s.endForeground()

	if err := s.transport.Submit(ctx, protocol.UCINewGame); err != nil {
		return fmt.Errorf("send ucinewgame: %w", err)
	}

	return s.readyRoundTrip(ctx)
}

// readyRoundTrip performs one isready exchange. The caller holds the
// foreground claim.
func (s *Session) readyRoundTrip(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.options.SyncTimeout)
	defer cancel()

	if err := s.transport.Submit(ctx, protocol.IsReady); err != nil {
		return fmt.Errorf("send isready: %w", err)
	}

	if err := s.waitFor(ctx, protocol.EventReadyOK, nil); err != nil {
		return fmt.Errorf("wait for readyok: %w", err)
	}

	return nil
}

// waitFor consumes lines until an event of the wanted type arrives. Every
// other line goes to other, when set.
func (s *Session) waitFor(ctx context.Context, want string, other func(line string)) error {
	for {
		line, err := s.transport.NextLine(ctx)
		if err != nil {
			return err
		}

		ev, err := protocol.Decode(line)
		if err != nil {
			s.log.Warn("Skipping malformed engine line", "error", err)

			continue
		}

		if ev != nil && ev.EventType() == want {
			return nil
		}

		if ev != nil {
			s.log.Debug("Ignoring event while waiting", "want", want, "got", ev.EventType())

			continue
		}

		if other != nil {
			other(line)
		}
	}
}

// Submit starts a job and returns the Searcher that yields its events.
//
// It is valid only in Ready: a job in flight (or a pending reply wait)
// yields errors.ErrBusy and leaves the running job untouched; before the
// first successful Sync it yields errors.ErrNotReady.
func (s *Session) Submit(ctx context.Context, request Job) (*Searcher, error) {
	j, err := s.claimSearch(request)
	if err != nil {
		return nil, err
	}

	// The sending token was taken with the claim, so a concurrent Cancel
	// cannot put its stop ahead of "go".
	err = s.send(ctx, request.Commands()...)

	<-s.sending

	if err != nil {
		s.finish(j, err)
		close(j.events)

		return nil, fmt.Errorf("submit search: %w", err)
	}

	s.log.Debug("Search started", "job_id", j.id, "depth", request.SearchDepth(), "moves", len(request.moves))

	s.jobs.Go(func() error {
		return s.pump(j)
	})

	return &Searcher{job: j}, nil
}

// claimSearch moves a Ready session to Search for a new job and takes the
// sending token on its behalf.
func (s *Session) claimSearch(request Job) (*job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usableLocked(); err != nil {
		return nil, err
	}

	switch {
	case s.state == StateSearch || s.foreground:
		return nil, errors.ErrBusy
	case s.state != StateReady:
		return nil, errors.ErrNotReady
	}

	// A Cancel of the previous job may still be writing.
	select {
	case s.sending <- struct{}{}:
	default:
		return nil, errors.ErrBusy
	}

	j := &job{
		id:        ulid.Make().String(),
		request:   request,
		events:    make(chan protocol.Event, s.options.JobBuffer),
		done:      make(chan struct{}),
		cancelled: make(chan struct{}),
	}

	s.state = StateSearch
	s.current = j

	return j, nil
}

// send writes commands in order. The caller holds the sending token.
func (s *Session) send(ctx context.Context, commands ...string) error {
	for _, cmd := range commands {
		if err := s.transport.Submit(ctx, cmd); err != nil {
			return err
		}
	}

	return nil
}

// pump is the sole reader of engine output while j is in flight.
//
// The session returns to Ready before the BestMove is handed to the
// Searcher, so a caller that has seen it can submit the next job at once.
// A cancelled job holds its BestMove back until the readyok that follows
// "stop" has arrived as well.
func (s *Session) pump(j *job) error {
	defer close(j.events)

	log := s.log.With("job_id", j.id)

	var (
		best     *protocol.BestMove
		sawReady bool
	)

	for {
		line, err := s.transport.NextLine(s.ctx)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || s.ctx.Err() != nil {
				err = errors.ErrEngineClosed
			}

			log.Debug("Search ended without bestmove", "error", err)
			s.finish(j, err)

			return err
		}

		ev, err := protocol.Decode(line)
		if err != nil {
			log.Warn("Skipping malformed engine line", "error", err)

			continue
		}

		switch e := ev.(type) {
		case *protocol.Info:
			if best == nil {
				s.emit(j, e)
			}
		case *protocol.BestMove:
			if best != nil {
				log.Debug("Ignoring extra bestmove", "move", e.Move)

				continue
			}

			best = e

			if sawReady {
				s.finish(j, nil)
			} else if !s.finishUnlessCancelling(j) {
				continue
			}

			log.Debug("Search finished", "bestmove", e.Move, "ponder", e.Ponder)
			s.emitBest(j, e)

			return nil
		case *protocol.ReadyOK:
			sawReady = true

			if best != nil {
				s.finish(j, nil)
				log.Debug("Search cancelled", "bestmove", best.Move)
				s.emitBest(j, best)

				return nil
			}
		case nil:
			if s.options.Unhandled != nil {
				s.options.Unhandled(line)
			}
		default:
			log.Debug("Ignoring event during search", "event", ev.EventType())
		}
	}
}

// emit delivers an Info to the job's Searcher. Once the job is being
// cancelled an unread Info is dropped instead, so a caller that stopped
// reading cannot keep the pump from the stop's bestmove and readyok.
func (s *Session) emit(j *job, info *protocol.Info) {
	select {
	case j.events <- info:
	case <-j.cancelled:
		select {
		case j.events <- info:
		default:
		}
	case <-s.ctx.Done():
	}
}

// emitBest delivers the terminal BestMove. For a cancelled job it evicts
// the oldest unread Info when the buffer is full; the BestMove is never dropped.
func (s *Session) emitBest(j *job, best *protocol.BestMove) {
	for {
		select {
		case j.events <- best:
			return
		case <-j.cancelled:
		case <-s.ctx.Done():
			return
		}

		select {
		case j.events <- best:
			return
		default:
		}

		select {
		case <-j.events:
		default:
		}
	}
}

// finishUnlessCancelling ends j after its BestMove unless a Cancel is
// waiting for its readyok. The check and the transition share one critical
// section so a concurrent Cancel sees either Search with its flag set, or Ready.
func (s *Session) finishUnlessCancelling(j *job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j.cancelling {
		return false
	}

	s.finishLocked(j, nil)

	return true
}

func (s *Session) finish(j *job, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finishLocked(j, err)
}

func (s *Session) finishLocked(j *job, err error) {
	if s.current != j {
		return
	}

	j.err = err
	s.current = nil
	s.state = StateReady
	close(j.done)
}

// Cancel stops the job in flight and waits until the engine has both
// answered with its BestMove and acknowledged a trailing "isready". The
// session is then back in Ready. Calling Cancel in Ready is a no-op, so two
// calls in a row are safe.
//
// Events the caller has not read yet are not waited for: Info events that do
// not fit the job's buffer are dropped, the BestMove is always kept.
func (s *Session) Cancel(ctx context.Context) error {
	s.mu.Lock()

	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()

		return err
	}

	j := s.current
	if s.state != StateSearch || j == nil {
		s.mu.Unlock()

		return nil
	}

	first := !j.cancelling
	if first {
		j.cancelling = true
		close(j.cancelled)
	}

	s.mu.Unlock()

	ctx, cancel := withTimeout(ctx, s.options.SyncTimeout)
	defer cancel()

	if first {
		s.log.Debug("Cancelling search", "job_id", j.id)

		if err := s.sendStop(ctx, j); err != nil {
			return fmt.Errorf("cancel search: %w", err)
		}
	}

	select {
	case <-j.done:
		if j.err != nil {
			return fmt.Errorf("cancel search: %w", j.err)
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("cancel search: %w", ctx.Err())
	}
}

// sendStop writes the stop and isready pair for j once Submit has finished
// writing the job's own commands. Nothing is sent if j never started.
func (s *Session) sendStop(ctx context.Context, j *job) error {
	select {
	case s.sending <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.sending }()

	s.mu.Lock()
	live := s.current == j
	s.mu.Unlock()

	if !live {
		return nil
	}

	return s.send(ctx, protocol.Stop, protocol.IsReady)
}

// Close stops any running job, asks the engine to quit and tears the
// process down. The session cannot be reused. Safe to call multiple times.
func (s *Session) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		started := s.started
		searching := s.state == StateSearch
		s.mu.Unlock()

		if !started {
			return
		}

		s.log.Info("Closing session")

		ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)

		if searching {
			_ = s.transport.Submit(ctx, protocol.Stop)
		}

		if err := s.transport.Submit(ctx, protocol.Quit); err != nil {
			s.log.Debug("Could not send quit", "error", err)
		}

		cancel()

		// Release pumps before the transport goes away.
		s.cancel()

		closeErr = s.transport.Close()

		if err := s.jobs.Wait(); err != nil {
			s.log.Debug("Search ended during close", "error", err)
		}

		s.log.Info("Session closed")
	})

	return closeErr
}
