package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/wagiedev/uci-engine-go/internal/config"
	"github.com/wagiedev/uci-engine-go/internal/errors"
)

// fakeEngine is a scripted config.Transport that answers commands the way a
// well-behaved UCI engine would.
type fakeEngine struct {
	mu   sync.Mutex
	sent []string
	dead bool

	lines chan string
	done  chan struct{}

	// infos are written in reply to "go".
	infos []string
	// best is the bestmove line that ends a search.
	best string
	// hold keeps a search running until "stop".
	hold bool
	// readyFirst answers a stop+isready pair with readyok before bestmove.
	readyFirst bool
	// mute drops every reply.
	mute bool
	// stall blocks every command until the engine dies, like a process
	// that stopped reading stdin.
	stall bool

	searching bool
	deferBest bool

	err error
}

var _ config.Transport = (*fakeEngine)(nil)

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		lines: make(chan string, 256),
		done:  make(chan struct{}),
		infos: []string{
			"info depth 1 seldepth 1 multipv 1 score cp 20 nodes 20 nps 20000 time 1 pv e2e4",
			"info depth 2 seldepth 2 multipv 1 score cp 35 nodes 80 nps 40000 time 2 pv e2e4 e7e5",
		},
		best: "bestmove e2e4 ponder e7e5",
	}
}

func (f *fakeEngine) Submit(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	stall := f.stall
	f.mu.Unlock()

	if stall {
		select {
		case <-f.done:
			return errors.ErrChannelClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dead {
		return errors.ErrChannelClosed
	}

	f.sent = append(f.sent, command)

	if f.mute {
		return nil
	}

	switch {
	case command == "uci":
		f.say("id name Fakefish 1.0", "id author The Testers",
			"option name Hash type spin default 16 min 1 max 1024",
			"option name Clear Hash type button", "uciok")
	case command == "isready":
		f.say("readyok")

		if f.deferBest {
			f.deferBest = false
			f.say(f.best)
		}
	case strings.HasPrefix(command, "go"):
		f.say(f.infos...)

		if f.hold {
			f.searching = true
		} else {
			f.say(f.best)
		}
	case command == "stop":
		if !f.searching {
			return nil
		}

		f.searching = false

		if f.readyFirst {
			f.deferBest = true
		} else {
			f.say(f.best)
		}
	}

	return nil
}

// say must be called with mu held.
func (f *fakeEngine) say(lines ...string) {
	for _, line := range lines {
		f.lines <- line
	}
}

// set changes the script while the engine is running.
func (f *fakeEngine) set(change func(f *fakeEngine)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	change(f)
}

// emit writes unsolicited engine output.
func (f *fakeEngine) emit(lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.dead {
		f.say(lines...)
	}
}

// manyInfos returns n info lines of increasing depth.
func manyInfos(n int) []string {
	infos := make([]string, n)

	for i := range infos {
		infos[i] = fmt.Sprintf("info depth %d score cp %d nodes %d pv e2e4", i+1, 10+i, 100*(i+1))
	}

	return infos
}

func (f *fakeEngine) NextLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-f.lines:
		if !ok {
			return "", errors.ErrChannelClosed
		}

		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *fakeEngine) Done() <-chan struct{} { return f.done }

func (f *fakeEngine) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.err
}

// die simulates the engine process going away.
func (f *fakeEngine) die(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dead {
		return
	}

	f.dead = true
	f.err = err

	close(f.lines)
	close(f.done)
}

func (f *fakeEngine) Close() error {
	f.die(nil)

	return nil
}

func (f *fakeEngine) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.sent)
}

func (f *fakeEngine) count(command string) int {
	n := 0

	for _, c := range f.commands() {
		if c == command {
			n++
		}
	}

	return n
}
