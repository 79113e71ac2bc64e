package keymap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/talonkeys/internal/input/key"
)

// ErrUnsupportedFormat is returned for override files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported keymap format")

// Format identifies an override file encoding.
type Format int

const (
	// FormatTOML is the default override format.
	FormatTOML Format = iota
	// FormatYAML is accepted for ".yaml" and ".yml" files.
	FormatYAML
)

// FormatFromPath picks the format for a file by its extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Loader builds keymaps from a base keymap and override files.
type Loader struct {
	base  *key.Keymap
	paths []string
}

// NewLoader creates a loader layering overrides on base.
// A nil base uses key.DefaultKeymap.
func NewLoader(base *key.Keymap) *Loader {
	if base == nil {
		base = key.DefaultKeymap()
	}
	return &Loader{base: base}
}

// AddPath adds an override file. Empty paths are ignored.
func (l *Loader) AddPath(path string) {
	if path == "" {
		return
	}
	l.paths = append(l.paths, path)
}

// Paths returns the override files in application order.
func (l *Loader) Paths() []string {
	return append([]string(nil), l.paths...)
}

// Load reads every override file and returns the merged keymap.
// Files that do not exist are skipped.
func (l *Loader) Load() (*key.Keymap, error) {
	km := l.base
	for _, path := range l.paths {
		o, err := LoadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		km = km.Merge(o)
	}
	return km, nil
}

// LoadFile reads one override file.
func LoadFile(path string) (key.Overrides, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return key.Overrides{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return key.Overrides{}, fmt.Errorf("reading keymap file %s: %w", path, err)
	}

	o, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return key.Overrides{}, fmt.Errorf("keymap file %s: %w", path, err)
	}
	return o, nil
}

// Decode reads overrides in the given format.
func Decode(r io.Reader, format Format) (key.Overrides, error) {
	var file overridesFile
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return key.Overrides{}, fmt.Errorf("decoding yaml keymap: %w", err)
		}
	default:
		dec := toml.NewDecoder(r).DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return key.Overrides{}, fmt.Errorf("decoding toml keymap: %w", err)
		}
	}

	if err := file.validate(); err != nil {
		return key.Overrides{}, err
	}

	return key.Overrides{
		Modifiers: file.Modifiers,
		Symbols:   file.Symbols,
		Keys:      file.Keys,
	}, nil
}

// overridesFile is the on-disk structure for override files.
type overridesFile struct {
	Modifiers map[string]string `toml:"modifiers" yaml:"modifiers"`
	Symbols   map[string]string `toml:"symbols" yaml:"symbols"`
	Keys      map[string]string `toml:"keys" yaml:"keys"`
}

// validate rejects entries that could never match or would corrupt chord syntax.
func (f overridesFile) validate() error {
	for alias, mod := range f.Modifiers {
		switch {
		case alias == "" || mod == "":
			return fmt.Errorf("modifier override %q = %q: empty name", alias, mod)
		case strings.ContainsAny(alias, "-: \t"):
			return fmt.Errorf("modifier override %q: alias cannot contain '-', ':' or whitespace", alias)
		}
	}
	for sym, name := range f.Symbols {
		if sym == "" || name == "" {
			return fmt.Errorf("symbol override %q = %q: empty name", sym, name)
		}
	}
	for k, name := range f.Keys {
		if k == "" || name == "" {
			return fmt.Errorf("key override %q = %q: empty name", k, name)
		}
	}
	return nil
}
