package key

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Verb is the dotool command emitted for a chord.
type Verb string

const (
	// VerbKey presses and releases the chord.
	VerbKey Verb = "key"
	// VerbKeyDown presses the chord without releasing it.
	VerbKeyDown Verb = "keydown"
	// VerbKeyUp releases a previously pressed chord.
	VerbKeyUp Verb = "keyup"
)

// Chord is a parsed and normalized Talon chord.
type Chord struct {
	// Verb is the dotool command for the chord.
	Verb Verb

	// Modifiers are the dotool modifier names in press order.
	Modifiers Modifiers

	// Key is the normalized dotool key name. Empty for modifier-only chords.
	Key string

	// Repeat is how many times a VerbKey chord is sent. Always >= 1.
	Repeat int
}

// String returns the dotool chord string, e.g. "ctrl+shift+a".
func (c Chord) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	parts = append(parts, c.Modifiers...)
	if c.Key != "" {
		parts = append(parts, c.Key)
	}
	return strings.Join(parts, "+")
}

// IsModifierOnly returns true if the chord has modifiers but no key.
func (c Chord) IsModifierOnly() bool {
	return c.Key == "" && !c.Modifiers.IsEmpty()
}

// IsEmpty returns true if the chord has neither modifiers nor a key.
func (c Chord) IsEmpty() bool {
	return c.Key == "" && c.Modifiers.IsEmpty()
}

// ParseChord parses a single Talon chord such as "ctrl-shift-a", "esc:3" or
// "ctrl:down". The second return value is false for blank input.
func (km *Keymap) ParseChord(spec string) (Chord, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, false
	}

	base, verb, repeat := parseSuffix(spec)
	mods, name := km.splitModifiers(base)
	mods, name = normalizeUpper(mods, name)

	return Chord{
		Verb:      verb,
		Modifiers: mods,
		Key:       km.NormalizeKey(name),
		Repeat:    repeat,
	}, true
}

// parseSuffix splits a ":down", ":up" or ":N" suffix off a chord.
// An unrecognized suffix is not a suffix: the whole chord is returned as the
// base with a single "key" press. A count too large for an int is treated
// as unrecognized.
func parseSuffix(spec string) (string, Verb, int) {
	i := strings.LastIndexByte(spec, ':')
	if i < 0 {
		return spec, VerbKey, 1
	}
	base, suffix := spec[:i], spec[i+1:]

	switch {
	case isDigits(suffix):
		if n, ok := parseRepeat(suffix); ok {
			return base, VerbKey, n
		}
	case suffix == "down":
		return base, VerbKeyDown, 1
	case suffix == "up":
		return base, VerbKeyUp, 1
	}
	return spec, VerbKey, 1
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseRepeat converts an all-digit suffix to a repeat count of at least 1.
func parseRepeat(digits string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return max(n, 1), true
}

// splitModifiers splits "mod-mod-key" into translated modifiers and the key.
// Modifiers must form a contiguous prefix; once a non-modifier part is seen the
// remaining parts are rejoined with "-" and form the key, so "ctrl--" yields
// the key "-" and "ctrl-a-shift" yields the key "a-shift".
func (km *Keymap) splitModifiers(chord string) (Modifiers, string) {
	parts := strings.Split(chord, "-")
	var mods Modifiers
	for i, part := range parts {
		mod, ok := km.Modifier(part)
		if !ok {
			return mods, strings.Join(parts[i:], "-")
		}
		mods = append(mods, mod)
	}
	return mods, ""
}

// normalizeUpper turns a single uppercase letter into its lowercase form plus
// an implicit shift.
func normalizeUpper(mods Modifiers, name string) (Modifiers, string) {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || size != len(name) || !unicode.IsLetter(r) || !unicode.IsUpper(r) {
		return mods, name
	}
	lower := string(unicode.ToLower(r))
	if mods.Has(ModShift) {
		return mods, lower
	}
	return mods.With(ModShift), lower
}
