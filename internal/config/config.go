package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/talonkeys/internal/integration/dotool"
	"github.com/dshills/talonkeys/internal/scope"
)

// AppName is used for the configuration directory and environment prefix.
const AppName = "talonkeys"

// Config is the complete talonkeys configuration.
type Config struct {
	Dotool  DotoolConfig  `toml:"dotool"`
	Scope   ScopeConfig   `toml:"scope"`
	Logging LoggingConfig `toml:"logging"`
	Keymap  KeymapConfig  `toml:"keymap"`
}

// DotoolConfig configures the dotool client process.
type DotoolConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Timeout Duration `toml:"timeout"`
}

// ScopeConfig selects the applications whose key specs are handled.
type ScopeConfig struct {
	Apps         []string `toml:"apps"`
	AllowUnknown bool     `toml:"allow_unknown"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
}

// KeymapConfig lists keymap override files, applied in order.
type KeymapConfig struct {
	Files []string `toml:"files"`
}

// Duration is a time.Duration written as a Go duration string ("500ms").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Dotool: DotoolConfig{
			Command: dotool.DefaultCommand,
			Timeout: Duration{dotool.DefaultTimeout},
		},
		Scope: ScopeConfig{
			Apps:         append([]string(nil), scope.DefaultApps...),
			AllowUnknown: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
	if dir, err := Dir(); err == nil {
		cfg.Keymap.Files = []string{filepath.Join(dir, "keymap.toml")}
	}
	return cfg
}

// Dir returns the per-user configuration directory for talonkeys.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Path is the config file. Empty means DefaultPath. A missing file is
	// only an error when Path was set explicitly.
	Path string

	// EnvFile is a dotenv file. Empty means ".env" next to the config file.
	EnvFile string

	// Lookup reads environment variables. Nil means os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load builds the configuration from defaults, the config file, the .env
// file and the environment, then validates it.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path := opts.Path
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) || explicit {
				return nil, err
			}
		}
	}

	envFile := opts.EnvFile
	if envFile == "" && path != "" {
		envFile = filepath.Join(filepath.Dir(path), ".env")
	}
	lookup, err := envLookup(envFile, opts.Lookup)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes a TOML file over cfg.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.decode(path, data)
}

func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// Validate checks that settings are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dotool.Command) == "" {
		return &ValidationError{Path: "dotool.command", Message: "must not be empty", Value: c.Dotool.Command}
	}
	if c.Dotool.Timeout.Duration <= 0 {
		return &ValidationError{Path: "dotool.timeout", Message: "must be positive", Value: c.Dotool.Timeout}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Message: "must be debug, info, warn, or error", Value: c.Logging.Level}
	}
	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAge < 0 {
		return &ValidationError{Path: "logging", Message: "rotation limits must not be negative", Value: c.Logging}
	}
	if _, err := scope.New(c.Scope.Apps, c.Scope.AllowUnknown); err != nil {
		return &ValidationError{Path: "scope.apps", Message: err.Error(), Value: c.Scope.Apps}
	}
	return nil
}

// DotoolOptions converts the dotool section to client options.
func (c *Config) DotoolOptions() dotool.Options {
	return dotool.Options{
		Command: c.Dotool.Command,
		Args:    append([]string(nil), c.Dotool.Args...),
		Timeout: c.Dotool.Timeout.Duration,
	}
}

// Matcher builds the application scope matcher.
func (c *Config) Matcher() (*scope.Matcher, error) {
	return scope.New(c.Scope.Apps, c.Scope.AllowUnknown)
}

// expandPaths resolves a leading "~/" in file settings.
func (c *Config) expandPaths() {
	c.Logging.File = expandHome(c.Logging.File)
	for i, f := range c.Keymap.Files {
		c.Keymap.Files[i] = expandHome(f)
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
