package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/talonkeys/internal/config/watcher"
)

// maxLineSize bounds a single request line.
const maxLineSize = 64 * 1024

// Request is one key spec delivered over the serve stream.
type Request struct {
	App string
	Key string
}

// ErrBadRequest is returned by ParseRequest for malformed lines.
var ErrBadRequest = errors.New("bad request")

// ParseRequest parses a serve line. A line is either a bare key spec or a
// JSON object {"app": "...", "key": "..."}. The second result is false for
// blank lines and "#" comments.
func ParseRequest(line string) (Request, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Request{}, false, nil
	}
	if !strings.HasPrefix(line, "{") {
		return Request{Key: line}, true, nil
	}

	if !gjson.Valid(line) {
		return Request{}, false, fmt.Errorf("%w: invalid JSON", ErrBadRequest)
	}
	res := gjson.GetMany(line, "app", "key")
	if res[1].Type != gjson.String {
		return Request{}, false, fmt.Errorf("%w: missing string field \"key\"", ErrBadRequest)
	}
	return Request{App: res[0].String(), Key: res[1].String()}, true, nil
}

// ServeOptions configures Serve.
type ServeOptions struct {
	// Prompt, when non-nil, receives a "> " prompt before each line.
	Prompt io.Writer

	// Watch enables keymap reload when override files change.
	Watch bool
}

// Serve reads requests from r until EOF or ctx is done, handling each with
// Key. Malformed lines are logged and skipped.
func (a *App) Serve(ctx context.Context, r io.Reader, opts ServeOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if opts.Watch {
		w, err := a.newKeymapWatcher()
		if err != nil {
			return err
		}
		if w != nil {
			g.Go(func() error {
				return w.Run(ctx, func(err error) {
					WithComponent(a.log, "watcher").WithError(err).Warn("watch error")
				})
			})
		}
	}

	g.Go(func() error {
		defer cancel()
		return a.readLoop(ctx, r, opts.Prompt)
	})

	return g.Wait()
}

// readLoop feeds lines from r to Key. The scanner runs in its own goroutine so
// that cancellation is not blocked by a pending read. After cancellation that
// goroutine stays blocked in Scan until r returns data, EOF or an error, so it
// can outlive Serve when r is never closed (stdin in the CLI).
func (a *App) readLoop(ctx context.Context, r io.Reader, prompt io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 4096), maxLineSize)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	log := WithComponent(a.log, "serve")
	for {
		if prompt != nil {
			_, _ = io.WriteString(prompt, "> ")
		}

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("reading requests: %w", err)
					}
				default:
				}
				return nil
			}

			req, ok, err := ParseRequest(line)
			if err != nil {
				log.WithError(err).WithField("line", line).Warn("skipping request")
				continue
			}
			if !ok {
				continue
			}
			a.Key(ctx, req.App, req.Key)
		}
	}
}

// newKeymapWatcher watches the keymap override files. It returns nil when
// there is nothing to watch.
func (a *App) newKeymapWatcher() (*watcher.Watcher, error) {
	paths := a.loader.Paths()
	if len(paths) == 0 {
		return nil, nil
	}

	w, err := watcher.New()
	if err != nil {
		return nil, &InitError{Component: "watcher", Err: err}
	}

	log := WithComponent(a.log, "watcher")
	for _, path := range paths {
		if err := w.Watch(path); err != nil {
			log.WithError(err).WithField("path", path).Warn("cannot watch keymap file")
		}
	}
	if len(w.WatchedFiles()) == 0 {
		_ = w.Close()
		return nil, nil
	}

	w.OnChange(func(e watcher.Event) {
		entry := log.WithFields(logrus.Fields{"path": e.Path, "op": e.Op.String()})
		if err := a.ReloadKeymap(); err != nil {
			entry.WithError(err).Error("keymap reload failed, keeping previous keymap")
			return
		}
		entry.Info("keymap reloaded")
	})
	return w, nil
}
