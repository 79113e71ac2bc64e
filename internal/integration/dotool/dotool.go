// Package dotool forwards translated key actions to the dotool daemon.
//
// Actions are written as newline-terminated lines to the standard input of a
// short-lived client process (dotoolc by default), which relays them to a
// running dotoold.
package dotool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/talonkeys/internal/input/key"
	"github.com/dshills/talonkeys/internal/integration/process"
)

// Defaults for Client.
const (
	DefaultCommand = "dotoolc"
	DefaultTimeout = 500 * time.Millisecond
)

// Errors returned by Client.Send.
var (
	// ErrLaunch indicates the dotool client could not be started.
	ErrLaunch = errors.New("dotool launch failed")

	// ErrExit indicates the dotool client exited with a non-zero status.
	ErrExit = errors.New("dotool exited with error")

	// ErrTimeout indicates the dotool client did not finish in time.
	ErrTimeout = errors.New("dotool timed out")
)

// Sink consumes batches of key actions.
type Sink interface {
	Send(ctx context.Context, actions []key.Action) error
}

// Options configures a Client.
type Options struct {
	// Command is the dotool client executable.
	Command string

	// Args are passed to Command.
	Args []string

	// Timeout bounds a single batch, including process start-up.
	Timeout time.Duration

	// Logger receives a debug entry per batch. Nil discards them.
	Logger logrus.FieldLogger
}

// Client sends action batches to a dotool client process.
type Client struct {
	opts Options
}

// NewClient creates a client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	return &Client{opts: opts}
}

// Options returns the effective client options.
func (c *Client) Options() Options {
	return c.opts
}

// Send runs the dotool client once with actions on its stdin.
// An empty batch does not start a process.
func (c *Client) Send(ctx context.Context, actions []key.Action) error {
	if len(actions) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	proc, err := process.Run(ctx, process.Spec{
		Name:  c.opts.Command,
		Path:  c.opts.Command,
		Args:  c.opts.Args,
		Stdin: strings.NewReader(key.FormatBatch(actions)),
	})
	c.opts.Logger.WithFields(logrus.Fields{
		"process": proc.ID,
		"pid":     proc.PID(),
		"state":   proc.State().String(),
		"runtime": proc.Runtime().Round(time.Microsecond).String(),
		"actions": len(actions),
	}).Debug("dotool batch finished")

	switch {
	case err == nil:
		return nil
	case errors.Is(err, process.ErrLaunch):
		return fmt.Errorf("%w: %w", ErrLaunch, err)
	case errors.Is(err, process.ErrDeadline):
		return fmt.Errorf("%w after %s: %w", ErrTimeout, c.opts.Timeout, err)
	case errors.Is(err, process.ErrNonZeroExit):
		return fmt.Errorf("%w: %w", ErrExit, err)
	}
	return err
}

// WriterSink writes action batches to an io.Writer in dotool input format.
// It is used for dry runs.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Send writes the batch to the underlying writer.
func (s *WriterSink) Send(_ context.Context, actions []key.Action) error {
	if len(actions) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, key.FormatBatch(actions)); err != nil {
		return fmt.Errorf("writing actions: %w", err)
	}
	return nil
}
