package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeRuina/timberjack"
	"github.com/sirupsen/logrus"

	"github.com/dshills/talonkeys/internal/config"
)

// ParseLogLevel parses a level name, defaulting to info for unknown names.
func ParseLogLevel(s string) logrus.Level {
	lv, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lv
}

// NewLogger creates the application logger from the logging settings.
// Logs go to stderr, and additionally to a rotating file when one is set.
func NewLogger(cfg config.LoggingConfig, stderr io.Writer) (*logrus.Logger, error) {
	if stderr == nil {
		stderr = os.Stderr
	}

	logger := logrus.New()
	logger.SetLevel(ParseLogLevel(cfg.Level))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000",
	})

	output := stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, &InitError{Component: "logger", Err: err}
		}
		output = io.MultiWriter(stderr, &timberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		})
	}
	logger.SetOutput(output)

	return logger, nil
}

// WithComponent returns an entry tagged with the component field.
func WithComponent(l logrus.FieldLogger, component string) *logrus.Entry {
	return l.WithField("component", component)
}

// NullLogger returns a logger that discards all output.
func NullLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
