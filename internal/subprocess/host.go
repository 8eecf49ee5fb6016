package subprocess

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/uci-engine-go/internal/config"
	"github.com/wagiedev/uci-engine-go/internal/errors"
)

const (
	// maxLineSize is the maximum length of one engine output line.
	maxLineSize = 1024 * 1024 // 1MB
	// maxStderrBufferSize caps the stderr kept for ProcessError.
	// The Stderr callback still receives every line past the cap.
	maxStderrBufferSize = 64 * 1024
)

// process is the part of *exec.Cmd the host relies on after start.
type process interface {
	Wait() error
	Kill() error
	Pid() int
}

// execProcess adapts a started *exec.Cmd to process.
type execProcess struct {
	cmd *exec.Cmd
}

func (p execProcess) Wait() error { return p.cmd.Wait() }
func (p execProcess) Pid() int    { return p.cmd.Process.Pid }

func (p execProcess) Kill() error {
	err := p.cmd.Process.Kill()
	if stderrors.Is(err, os.ErrProcessDone) {
		return nil
	}

	return err
}

// Host implements config.Transport over an engine subprocess.
type Host struct {
	log     *slog.Logger
	options *config.Options
	proc    process

	stdin  io.WriteCloser
	stdout io.Reader
	stderr io.Reader

	commands chan string
	lines    chan string

	stop       chan struct{} // closed by Close
	writerDone chan struct{} // closed when the writer goroutine returns
	exited     chan struct{} // closed once the process has been reaped

	eg errgroup.Group

	mu        sync.Mutex
	exitErr   error
	stderrBuf strings.Builder
	closing   bool

	closeOnce sync.Once
	closeErr  error
}

// Compile-time verification that Host implements the Transport interface.
var _ config.Transport = (*Host)(nil)

// Spawn locates and starts the engine at path and begins its background I/O.
//
// Returns *errors.SpawnError when the executable cannot be found or started,
// or when its standard streams cannot be captured. The process lifetime is
// bound to the Host, not to ctx; ctx only aborts the launch itself.
func Spawn(ctx context.Context, log *slog.Logger, path string, options *config.Options) (*Host, error) {
	options = options.WithDefaults()
	log = log.With("component", "engine_host")

	if err := ctx.Err(); err != nil {
		return nil, &errors.SpawnError{Path: path, Err: err}
	}

	resolved, err := Locate(log, path)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G204: launching a caller-chosen engine binary is the purpose of this package
	cmd := exec.Command(resolved, options.Args...)
	cmd.Dir = options.Dir
	cmd.Env = buildEnvironment(options.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &errors.SpawnError{Path: resolved, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &errors.SpawnError{Path: resolved, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &errors.SpawnError{Path: resolved, Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		log.Error("Failed to start engine process", "path", resolved, "error", err)

		return nil, &errors.SpawnError{Path: resolved, Err: fmt.Errorf("start process: %w", err)}
	}

	log.Info("Engine process started", "path", resolved, "pid", cmd.Process.Pid)

	return newHost(log, options, execProcess{cmd: cmd}, stdin, stdout, stderr), nil
}

// newHost wires a started process to its queues and starts the writer,
// reader, stderr and reaper goroutines.
func newHost(
	log *slog.Logger,
	options *config.Options,
	proc process,
	stdin io.WriteCloser,
	stdout io.Reader,
	stderr io.Reader,
) *Host {
	options = options.WithDefaults()

	h := &Host{
		log:        log,
		options:    options,
		proc:       proc,
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		commands:   make(chan string, options.CommandBuffer),
		lines:      make(chan string, options.LineBuffer),
		stop:       make(chan struct{}),
		writerDone: make(chan struct{}),
		exited:     make(chan struct{}),
	}

	// cmd.Wait closes the pipes, so it must not run before both readers finish.
	var pipes sync.WaitGroup

	pipes.Go(h.readLoop)
	pipes.Go(h.drainStderr)

	h.eg.Go(h.writeLoop)
	h.eg.Go(func() error {
		pipes.Wait()

		return h.reap()
	})

	return h
}

// Submit enqueues one command for the engine.
//
// The writer appends exactly one newline, so commands containing a line
// break are rejected with errors.ErrInvalidCommand. Submit blocks only while
// the command queue is full. Once the writer has stopped it returns
// errors.ErrChannelClosed.
func (h *Host) Submit(ctx context.Context, command string) error {
	if strings.ContainsAny(command, "\r\n") {
		return fmt.Errorf("submit %q: %w", command, errors.ErrInvalidCommand)
	}

	select {
	case <-h.writerDone:
		return errors.ErrChannelClosed
	case <-h.stop:
		return errors.ErrChannelClosed
	default:
	}

	select {
	case h.commands <- command:
		return nil
	case <-h.writerDone:
		return errors.ErrChannelClosed
	case <-h.stop:
		return errors.ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextLine blocks until the engine writes a line or its output ends.
// End of output, for any reason, is reported as errors.ErrChannelClosed.
func (h *Host) NextLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-h.lines:
		if !ok {
			return "", errors.ErrChannelClosed
		}

		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Done is closed once the engine process has exited and been reaped.
func (h *Host) Done() <-chan struct{} {
	return h.exited
}

// Err returns a *errors.ProcessError when the engine exited abnormally
// without being closed, nil otherwise.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.exitErr
}

// Pid returns the engine's process ID.
func (h *Host) Pid() int {
	return h.proc.Pid()
}

// Close shuts the engine down.
//
// Commands already queued (typically "quit") are flushed and stdin is
// closed. If the process has not exited within the shutdown timeout it is
// killed. Close waits for every background goroutine before returning and
// is safe to call multiple times.
func (h *Host) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closing = true
		h.mu.Unlock()

		close(h.stop)

		timer := time.NewTimer(h.options.ShutdownTimeout)
		defer timer.Stop()

		select {
		case <-h.exited:
		case <-timer.C:
			h.log.Debug("Engine did not exit in time, killing", "pid", h.proc.Pid())

			if err := h.proc.Kill(); err != nil {
				h.closeErr = fmt.Errorf("kill engine process (pid %d): %w", h.proc.Pid(), err)
			}
		}

		if err := h.eg.Wait(); err != nil {
			h.log.Debug("Engine I/O ended with error", "error", err)
		}

		h.log.Info("Engine process closed")
	})

	return h.closeErr
}

// writeLoop drains the command queue into stdin until Close, process exit,
// or a write failure.
func (h *Host) writeLoop() error {
	defer close(h.writerDone)
	defer h.stdin.Close()

	w := bufio.NewWriter(h.stdin)

	for {
		select {
		case cmd := <-h.commands:
			if err := h.write(w, cmd); err != nil {
				return err
			}
		case <-h.stop:
			return h.flushQueued(w)
		case <-h.exited:
			h.log.Debug("Writer stopped: engine exited")

			return nil
		}
	}
}

// flushQueued writes whatever is still queued without blocking for more.
func (h *Host) flushQueued(w *bufio.Writer) error {
	for {
		select {
		case cmd := <-h.commands:
			if err := h.write(w, cmd); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (h *Host) write(w *bufio.Writer, cmd string) error {
	h.log.Debug("->", "command", cmd)

	if _, err := w.WriteString(cmd); err != nil {
		return h.writeFailed(err)
	}

	if err := w.WriteByte('\n'); err != nil {
		return h.writeFailed(err)
	}

	if err := w.Flush(); err != nil {
		return h.writeFailed(err)
	}

	return nil
}

func (h *Host) writeFailed(err error) error {
	h.log.Error("Failed to write command to engine", "error", err)

	return fmt.Errorf("write to stdin: %w", err)
}

// readLoop publishes stdout lines until EOF. After Close it keeps draining
// stdout, discarding lines nobody will read, so the engine never blocks on
// a full pipe while shutting down.
func (h *Host) readLoop() {
	defer close(h.lines)

	scanner := bufio.NewScanner(h.stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		h.log.Debug("<-", "line", line)

		select {
		case h.lines <- line:
		case <-h.stop:
		}
	}

	if err := scanner.Err(); err != nil {
		h.log.Error("Failed to read engine output", "error", err)

		return
	}

	h.log.Debug("Engine output closed")
}

// drainStderr buffers stderr for ProcessError and forwards each line to the
// Stderr callback.
func (h *Host) drainStderr() {
	if h.stderr == nil {
		return
	}

	scanner := bufio.NewScanner(h.stderr)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()

		h.mu.Lock()

		if h.stderrBuf.Len() < maxStderrBufferSize {
			if h.stderrBuf.Len() > 0 {
				h.stderrBuf.WriteString("\n")
			}

			h.stderrBuf.WriteString(line)
		}

		h.mu.Unlock()

		if h.options.Stderr != nil {
			h.options.Stderr(line)
		}
	}

	if err := scanner.Err(); err != nil {
		h.log.Debug("Stderr scanner error", "error", err)
	}
}

// reap waits for the process and records an abnormal exit.
func (h *Host) reap() error {
	err := h.proc.Wait()

	h.mu.Lock()

	closing := h.closing

	if err != nil && !closing {
		exitCode := -1
		if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
			exitCode = exitErr.ExitCode()
		}

		h.exitErr = &errors.ProcessError{
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(h.stderrBuf.String()),
			Err:      err,
		}
	}

	h.mu.Unlock()

	close(h.exited)

	switch {
	case err == nil:
		h.log.Info("Engine process exited")
	case closing:
		h.log.Debug("Engine process terminated during shutdown", "error", err)
	default:
		h.log.Error("Engine process exited with error", "error", err)
	}

	return nil
}
