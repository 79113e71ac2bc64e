package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/talonkeys/internal/integration/dotool"
)

// noEnv is a lookup with an empty environment.
func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Dotool.Command != dotool.DefaultCommand {
		t.Errorf("Dotool.Command = %q, want %q", cfg.Dotool.Command, dotool.DefaultCommand)
	}
	if cfg.Dotool.Timeout.Duration != dotool.DefaultTimeout {
		t.Errorf("Dotool.Timeout = %v, want %v", cfg.Dotool.Timeout, dotool.DefaultTimeout)
	}
	if len(cfg.Scope.Apps) == 0 || !cfg.Scope.AllowUnknown {
		t.Errorf("unexpected scope defaults: %+v", cfg.Scope)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[dotool]
command = "/usr/local/bin/dotoolc"
args = ["--verbose"]
timeout = "750ms"

[scope]
apps = ["Sublime Text", "/^subl/"]
allow_unknown = false

[logging]
level = "debug"

[keymap]
files = ["/etc/talonkeys/keymap.toml"]
`)

	cfg, err := Load(LoadOptions{Path: path, Lookup: noEnv})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Dotool.Command != "/usr/local/bin/dotoolc" {
		t.Errorf("Dotool.Command = %q", cfg.Dotool.Command)
	}
	if !reflect.DeepEqual(cfg.Dotool.Args, []string{"--verbose"}) {
		t.Errorf("Dotool.Args = %q", cfg.Dotool.Args)
	}
	if cfg.Dotool.Timeout.Duration != 750*time.Millisecond {
		t.Errorf("Dotool.Timeout = %v, want 750ms", cfg.Dotool.Timeout)
	}
	if cfg.Scope.AllowUnknown {
		t.Error("Scope.AllowUnknown should be false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	// Unset fields keep their defaults.
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("Logging.MaxBackups = %d, want default 3", cfg.Logging.MaxBackups)
	}
	if !reflect.DeepEqual(cfg.Keymap.Files, []string{"/etc/talonkeys/keymap.toml"}) {
		t.Errorf("Keymap.Files = %q", cfg.Keymap.Files)
	}

	opts := cfg.DotoolOptions()
	if opts.Command != cfg.Dotool.Command || opts.Timeout != 750*time.Millisecond {
		t.Errorf("DotoolOptions() = %+v", opts)
	}

	m, err := cfg.Matcher()
	if err != nil {
		t.Fatalf("Matcher() error = %v", err)
	}
	if !m.Match("sublime_text") || m.Match("") {
		t.Error("Matcher() does not reflect scope settings")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "nope.toml"), Lookup: noEnv})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "[dotool\ncommand = 1\n")

	_, err := Load(LoadOptions{Path: path, Lookup: noEnv})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if perr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
	}
	if perr.Line == 0 {
		t.Error("ParseError.Line should be set for syntax errors")
	}
}

func TestLoadUnknownField(t *testing.T) {
	path := writeConfig(t, "[dotool]\ncmd = \"dotoolc\"\n")
	if _, err := Load(LoadOptions{Path: path, Lookup: noEnv}); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, "[dotool]\ntimeout = \"soon\"\n")
	if _, err := Load(LoadOptions{Path: path, Lookup: noEnv}); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[dotool]\ncommand = \"from-file\"\n")

	cfg, err := Load(LoadOptions{
		Path: path,
		Lookup: envMap(map[string]string{
			EnvDotoolCommand: "from-env",
			EnvDotoolTimeout: "2s",
			EnvApps:          "Sublime Text, Code ,",
			EnvLogLevel:      "warn",
			EnvKeymap:        "/a.toml" + string(filepath.ListSeparator) + "/b.yaml",
		}),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Dotool.Command != "from-env" {
		t.Errorf("Dotool.Command = %q, want from-env", cfg.Dotool.Command)
	}
	if cfg.Dotool.Timeout.Duration != 2*time.Second {
		t.Errorf("Dotool.Timeout = %v, want 2s", cfg.Dotool.Timeout)
	}
	if !reflect.DeepEqual(cfg.Scope.Apps, []string{"Sublime Text", "Code"}) {
		t.Errorf("Scope.Apps = %q", cfg.Scope.Apps)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if !reflect.DeepEqual(cfg.Keymap.Files, []string{"/a.toml", "/b.yaml"}) {
		t.Errorf("Keymap.Files = %q", cfg.Keymap.Files)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	path := writeConfig(t, "")
	_, err := Load(LoadOptions{Path: path, Lookup: envMap(map[string]string{EnvDotoolTimeout: "fast"})})
	if !errors.Is(err, ErrInvalidEnv) {
		t.Errorf("expected ErrInvalidEnv, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeConfig(t, "")
	envFile := filepath.Join(filepath.Dir(path), ".env")
	content := EnvDotoolCommand + "=from-dotenv\n" + EnvLogLevel + "=error\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	// The real environment wins over .env.
	cfg, err := Load(LoadOptions{Path: path, Lookup: envMap(map[string]string{EnvLogLevel: "debug"})})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dotool.Command != "from-dotenv" {
		t.Errorf("Dotool.Command = %q, want from-dotenv", cfg.Dotool.Command)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"empty command", func(c *Config) { c.Dotool.Command = " " }, "dotool.command"},
		{"zero timeout", func(c *Config) { c.Dotool.Timeout = Duration{} }, "dotool.timeout"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"negative rotation", func(c *Config) { c.Logging.MaxAge = -1 }, "logging"},
		{"bad pattern", func(c *Config) { c.Scope.Apps = []string{"/([/"} }, "scope.apps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
			var verr *ValidationError
			if errors.As(err, &verr) && verr.Path != tt.path {
				t.Errorf("ValidationError.Path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"~/x.toml", filepath.Join(home, "x.toml")},
		{"~user/x", "~user/x"},
	}

	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseErrorFormat(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "bad"}, "parse error in a.toml at line 3, column 7: bad"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
