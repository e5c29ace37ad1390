package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/vertti/childproc/pkg/pipe"
)

// DefaultPollInterval is used by Wait when no interval is given.
const DefaultPollInterval = 20 * time.Millisecond

// ErrNotStarted is returned for operations that need a process started by Start.
var ErrNotStarted = errors.New("process not started by this package")

// Handle is the shared record of one child process.
type Handle struct {
	// ID uniquely identifies the handle within this process.
	ID string

	native Native
	stdout *pipe.Stream
	stderr *pipe.Stream
	stdin  *os.File

	cmd      *exec.Cmd
	reapOnce sync.Once

	mu       sync.Mutex
	done     bool
	exitCode int
}

// New builds a Handle from native spawn results: the process identifier and
// the parent's ends of the output, error and input pipes. The Handle owns all
// of them from then on. Any of the files may be nil when that stream was not
// piped.
func New(native Native, out, errOut, in *os.File) (*Handle, error) {
	h := &Handle{
		ID:       uuid.NewString(),
		native:   native,
		stdin:    in,
		exitCode: -1,
	}
	var err error
	if h.stdout, err = newStream(out); err != nil {
		return nil, err
	}
	if h.stderr, err = newStream(errOut); err != nil {
		if h.stdout != nil {
			_ = h.stdout.Close()
		}
		return nil, err
	}
	return h, nil
}

func newStream(f *os.File) (*pipe.Stream, error) {
	if f == nil {
		return nil, nil
	}
	ep, err := pipe.NewEndpoint(f)
	if err != nil {
		return nil, err
	}
	return pipe.NewStream(ep), nil
}

// PID returns the OS process identifier.
func (h *Handle) PID() int { return h.native.PID() }

// Native returns the platform process identifier.
func (h *Handle) Native() Native { return h.native }

// MarkDone records the exit code and flips the completion flag in one
// critical section. Only the first call has any effect; it reports whether
// this call performed the transition.
func (h *Handle) MarkDone(code int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.exitCode = code
	h.done = true
	return true
}

// Done returns the completion flag and exit code read together. The code is
// -1 while the process is running.
func (h *Handle) Done() (bool, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.done {
		return false, -1
	}
	return true, h.exitCode
}

// Wait polls Done every interval until the process finishes or ctx ends.
func (h *Handle) Wait(ctx context.Context, interval time.Duration) (int, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if done, code := h.Done(); done {
			return code, nil
		}
		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		case <-ticker.C:
		}
	}
}

// DrainStdout returns whatever the child's output pipe holds right now.
func (h *Handle) DrainStdout() (pipe.Result, error) { return drainStream(h.stdout) }

// DrainStderr returns whatever the child's error pipe holds right now.
func (h *Handle) DrainStderr() (pipe.Result, error) { return drainStream(h.stderr) }

func drainStream(s *pipe.Stream) (pipe.Result, error) {
	if s == nil {
		return pipe.Result{}, nil
	}
	return s.Drain()
}

// Stdout returns the output stream, or nil when it was not piped.
func (h *Handle) Stdout() *pipe.Stream { return h.stdout }

// Stderr returns the error stream, or nil when it was not piped.
func (h *Handle) Stderr() *pipe.Stream { return h.stderr }

// Stdin returns the write end of the child's input pipe, or nil.
func (h *Handle) Stdin() *os.File { return h.stdin }

// CloseStdin closes the child's input so it sees end of file.
func (h *Handle) CloseStdin() error {
	if h.stdin == nil {
		return nil
	}
	if err := h.stdin.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("close stdin: %w", err)
	}
	return nil
}

// Reap waits for a process created by Start and marks the handle done. It is
// safe to call more than once; Start already runs it in the background.
func (h *Handle) Reap() {
	if h.cmd == nil {
		return
	}
	h.reapOnce.Do(func() {
		err := h.cmd.Wait()
		code := exitCode(h.cmd.ProcessState, err)
		h.MarkDone(code)
		logrus.WithFields(logrus.Fields{
			"id":        h.ID,
			"pid":       h.PID(),
			"exit_code": code,
		}).Debug("proc: process exited")
	})
}

func exitCode(state *os.ProcessState, err error) int {
	if state != nil {
		return state.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Kill terminates a process created by Start.
func (h *Handle) Kill() error {
	if h.cmd == nil || h.cmd.Process == nil {
		return ErrNotStarted
	}
	if done, _ := h.Done(); done {
		return nil
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill %d: %w", h.PID(), err)
	}
	return nil
}

// Close releases the pipe endpoints and the native process handle. It does
// not stop the process.
func (h *Handle) Close() error {
	var result *multierror.Error
	if err := h.CloseStdin(); err != nil {
		result = multierror.Append(result, err)
	}
	streams := []struct {
		name string
		s    *pipe.Stream
	}{{"stdout", h.stdout}, {"stderr", h.stderr}}
	for _, st := range streams {
		if st.s == nil {
			continue
		}
		if err := st.s.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			result = multierror.Append(result, fmt.Errorf("close %s: %w", st.name, err))
		}
	}
	if err := h.native.release(); err != nil {
		result = multierror.Append(result, fmt.Errorf("release process handle: %w", err))
	}
	return result.ErrorOrNil()
}
