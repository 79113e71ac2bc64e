// Package app wires the translator, scope matcher and dotool sink into the
// key handler invoked by the voice-control host.
package app

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/dshills/talonkeys/internal/config"
	"github.com/dshills/talonkeys/internal/input/key"
	"github.com/dshills/talonkeys/internal/input/keymap"
	"github.com/dshills/talonkeys/internal/integration/dotool"
	"github.com/dshills/talonkeys/internal/scope"
)

// Options configures the application.
type Options struct {
	// Config is the loaded configuration. Required.
	Config *config.Config

	// Logger overrides the logger built from Config.Logging.
	Logger *logrus.Logger

	// Sink overrides the dotool client built from Config.Dotool.
	Sink dotool.Sink

	// App is the application name assumed for requests that do not carry one.
	App string
}

// App handles key specs from the host.
type App struct {
	cfg     *config.Config
	log     *logrus.Logger
	sink    dotool.Sink
	matcher *scope.Matcher
	loader  *keymap.Loader
	app     string

	translator atomic.Pointer[key.Translator]
}

// New creates an App from opts.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, &InitError{Component: "config", Err: ErrNoConfig}
	}
	cfg := opts.Config

	a := &App{
		cfg:  cfg,
		log:  opts.Logger,
		sink: opts.Sink,
		app:  opts.App,
	}

	if a.log == nil {
		l, err := NewLogger(cfg.Logging, nil)
		if err != nil {
			return nil, err
		}
		a.log = l
	}

	matcher, err := cfg.Matcher()
	if err != nil {
		return nil, &InitError{Component: "scope", Err: err}
	}
	a.matcher = matcher

	if a.sink == nil {
		dopts := cfg.DotoolOptions()
		dopts.Logger = WithComponent(a.log, "dotool")
		a.sink = dotool.NewClient(dopts)
	}

	a.loader = keymap.NewLoader(key.DefaultKeymap())
	for _, path := range cfg.Keymap.Files {
		a.loader.AddPath(path)
	}
	if err := a.ReloadKeymap(); err != nil {
		return nil, &InitError{Component: "keymap", Err: err}
	}

	return a, nil
}

// Logger returns the application's logger.
func (a *App) Logger() *logrus.Logger {
	return a.log
}

// Translator returns the current translator.
func (a *App) Translator() *key.Translator {
	return a.translator.Load()
}

// ReloadKeymap rebuilds the keymap from the configured override files and
// swaps it in. On error the previous keymap stays active.
func (a *App) ReloadKeymap() error {
	km, err := a.loader.Load()
	if err != nil {
		return err
	}
	a.translator.Store(key.NewTranslator(km))
	return nil
}

// Translate converts spec to dotool actions with the current keymap.
func (a *App) Translate(spec string) []key.Action {
	return a.Translator().Translate(spec)
}

// Key handles one key spec for the named application. Empty appName means
// the default application from Options. It returns the actions handed to the
// sink. Delivery failures are logged and never returned: the host must not
// observe them.
func (a *App) Key(ctx context.Context, appName, spec string) []key.Action {
	if appName == "" {
		appName = a.app
	}
	log := WithComponent(a.log, "key").WithFields(logrus.Fields{
		"spec": spec,
		"app":  appName,
	})
	log.Info("key spec received")

	if !a.matcher.Match(appName) {
		log.Debug("application out of scope")
		return nil
	}

	actions := a.Translate(spec)
	if len(actions) == 0 {
		log.Debug("no actions")
		return nil
	}

	if err := a.sink.Send(ctx, actions); err != nil {
		log.WithError(err).Error("dotool send failed")
		return actions
	}

	log.WithField("actions", len(actions)).Debug("actions sent")
	return actions
}
