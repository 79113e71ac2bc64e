package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const (
	// maxStderr bounds how much child stderr is kept for diagnostics.
	maxStderr = 4096

	// waitDelay bounds how long Wait waits for I/O copying after the child exits.
	waitDelay = 100 * time.Millisecond
)

// Sentinel errors for process package.
var (
	// ErrProcessNotStarted is returned when operations require a started process.
	ErrProcessNotStarted = errors.New("process not started")

	// ErrLaunch is returned when the command could not be started.
	ErrLaunch = errors.New("process launch failed")

	// ErrNonZeroExit is returned when the command exits with a non-zero status.
	ErrNonZeroExit = errors.New("process exited with non-zero status")

	// ErrDeadline is returned when the context expires before the command exits.
	ErrDeadline = errors.New("process deadline exceeded")
)

// State represents the state of a process.
type State int

const (
	// StateCreated indicates the process has been created but not started.
	StateCreated State = iota
	// StateRunning indicates the process is currently running.
	StateRunning
	// StateExited indicates the process has exited normally or with an error.
	StateExited
	// StateKilled indicates the process was killed by a signal.
	StateKilled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Spec describes a command to run.
type Spec struct {
	// Name is a human-readable name used in errors and logs.
	Name string

	// Path is the executable, resolved through PATH.
	Path string

	// Args are the command arguments, excluding the executable.
	Args []string

	// Env, when non-nil, replaces the inherited environment.
	Env []string

	// Stdin is fed to the child's standard input. Nil means no input.
	Stdin io.Reader
}

// Process represents a managed child process.
type Process struct {
	// ID is the unique identifier for this process.
	ID string

	// Name is a human-readable name for the process.
	Name string

	// Cmd is the underlying exec.Cmd.
	Cmd *exec.Cmd

	// Started is the time the process was started.
	Started time.Time

	done     chan struct{}
	state    atomic.Int32
	exitCode atomic.Int32

	mu      sync.RWMutex
	exitErr error
	ended   time.Time
	stderr  *limitedBuffer

	waitOnce sync.Once
}

// New creates a Process for spec without starting it.
func New(spec Spec) *Process {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Stdin = spec.Stdin
	cmd.WaitDelay = waitDelay
	if spec.Env != nil {
		cmd.Env = spec.Env
	}

	name := spec.Name
	if name == "" {
		name = spec.Path
	}

	stderr := &limitedBuffer{max: maxStderr}
	cmd.Stderr = stderr

	p := &Process{
		ID:     uuid.NewString(),
		Name:   name,
		Cmd:    cmd,
		done:   make(chan struct{}),
		stderr: stderr,
	}
	p.state.Store(int32(StateCreated))
	p.exitCode.Store(-1) // -1 indicates not exited
	return p
}

// Run starts the command described by spec and waits for it to exit or for
// ctx to be done, whichever comes first. On deadline the child is killed.
// The returned Process is non-nil whenever the command was constructed.
func Run(ctx context.Context, spec Spec) (*Process, error) {
	p := New(spec)
	if err := p.start(); err != nil {
		return p, err
	}
	return p, p.Wait(ctx)
}

// State returns the current process state.
func (p *Process) State() State {
	return State(p.state.Load())
}

// ExitCode returns the process exit code.
// Returns -1 if the process has not exited.
func (p *Process) ExitCode() int {
	return int(p.exitCode.Load())
}

// ExitError returns any error from waiting on the process.
func (p *Process) ExitError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exitErr
}

// Stderr returns the captured standard error, truncated to a few KiB.
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Done returns a channel that is closed when the process exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// IsRunning returns true if the process is currently running.
func (p *Process) IsRunning() bool {
	return p.State() == StateRunning
}

// PID returns the process ID, or -1 if not started.
func (p *Process) PID() int {
	if p.Cmd.Process == nil {
		return -1
	}
	return p.Cmd.Process.Pid
}

// Signal sends a signal to the process.
func (p *Process) Signal(sig os.Signal) error {
	if !p.IsRunning() || p.Cmd.Process == nil {
		return ErrProcessNotStarted
	}
	return p.Cmd.Process.Signal(sig)
}

// Kill sends SIGKILL to the process.
func (p *Process) Kill() error {
	return p.Signal(syscall.SIGKILL)
}

// start starts the process and begins tracking it.
func (p *Process) start() error {
	if err := p.Cmd.Start(); err != nil {
		p.state.Store(int32(StateExited))
		close(p.done)
		return fmt.Errorf("%w: %s: %w", ErrLaunch, p.Name, err)
	}

	p.Started = time.Now()
	p.state.Store(int32(StateRunning))

	go p.waitLoop()

	return nil
}

// Wait blocks until the process exits or ctx is done. If ctx ends first the
// process is killed and ErrDeadline is returned once it has been reaped.
func (p *Process) Wait(ctx context.Context) error {
	if p.State() == StateCreated {
		return ErrProcessNotStarted
	}

	select {
	case <-p.done:
	case <-ctx.Done():
		_ = p.Kill()
		<-p.done
		return fmt.Errorf("%w: %s after %s: %w", ErrDeadline, p.Name, p.Runtime().Round(time.Millisecond), ctx.Err())
	}

	if code := p.ExitCode(); code != 0 {
		return &ExitError{Name: p.Name, Code: code, Stderr: p.Stderr(), Err: p.ExitError()}
	}
	return nil
}

// waitLoop waits for the process to exit and updates state.
func (p *Process) waitLoop() {
	p.waitOnce.Do(func() {
		err := p.Cmd.Wait()

		p.mu.Lock()
		p.exitErr = err
		p.ended = time.Now()
		p.mu.Unlock()

		exitCode := 0
		state := StateExited

		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
				if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
					state = StateKilled
				}
			} else {
				exitCode = -1
			}
		}

		p.exitCode.Store(int32(exitCode))
		p.state.Store(int32(state))
		close(p.done)
	})
}

// Runtime returns how long the process ran, or has been running so far.
func (p *Process) Runtime() time.Duration {
	if p.Started.IsZero() {
		return 0
	}
	p.mu.RLock()
	ended := p.ended
	p.mu.RUnlock()
	if !ended.IsZero() {
		return ended.Sub(p.Started)
	}
	return time.Since(p.Started)
}

// ExitError describes a child that exited with a non-zero status.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
	Err    error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Name, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
}

// Is reports ErrNonZeroExit so callers can use errors.Is.
func (e *ExitError) Is(target error) bool {
	return target == ErrNonZeroExit
}

// Unwrap returns the underlying wait error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// limitedBuffer keeps the first max bytes written and drops the rest.
type limitedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(bytes.TrimSpace(b.buf.Bytes()))
}
