package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TALONKEYS_"

// Environment variable names.
const (
	EnvDotoolCommand = EnvPrefix + "DOTOOL_COMMAND"
	EnvDotoolTimeout = EnvPrefix + "DOTOOL_TIMEOUT"
	EnvApps          = EnvPrefix + "APPS"
	EnvLogLevel      = EnvPrefix + "LOG_LEVEL"
	EnvLogFile       = EnvPrefix + "LOG_FILE"
	EnvKeymap        = EnvPrefix + "KEYMAP"
)

// envLookup returns a lookup that prefers the process environment and falls
// back to values from envFile. A missing envFile is not an error.
func envLookup(envFile string, lookup func(string) (string, bool)) (func(string) (string, bool), error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if envFile == "" {
		return lookup, nil
	}

	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lookup, nil
		}
		return nil, &ParseError{Path: envFile, Message: err.Error(), Err: err}
	}

	return func(name string) (string, bool) {
		if v, ok := lookup(name); ok {
			return v, true
		}
		v, ok := fileVars[name]
		return v, ok
	}, nil
}

// applyEnv overlays TALONKEYS_* variables on c.
// Empty values are treated as set and clear list settings.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDotoolCommand); ok {
		c.Dotool.Command = v
	}
	if v, ok := lookup(EnvDotoolTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnv, EnvDotoolTimeout, v, err)
		}
		c.Dotool.Timeout = Duration{d}
	}
	if v, ok := lookup(EnvApps); ok {
		c.Scope.Apps = splitList(v, ",")
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.Logging.File = v
	}
	if v, ok := lookup(EnvKeymap); ok {
		c.Keymap.Files = splitList(v, string(filepath.ListSeparator))
	}
	return nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
