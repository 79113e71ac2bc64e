package key

import (
	"maps"
	"strings"
)

const keypadPrefix = "keypad_"

// defaultSymbolKeys maps literal symbols to dotool key names.
// Exact matches here win over every other normalization step.
var defaultSymbolKeys = map[string]string{
	",":  "comma",
	".":  "period",
	"/":  "slash",
	"\\": "backslash",
	";":  "semicolon",
	"'":  "apostrophe",
	"`":  "grave",
	"[":  "bracketleft",
	"]":  "bracketright",
	"-":  "minus",
	"=":  "equal",
	"!":  "exclam",
	"@":  "at",
	"#":  "numbersign",
	"$":  "dollar",
	"%":  "percent",
	"^":  "asciicircum",
	"&":  "ampersand",
	"*":  "asterisk",
	"(":  "parenleft",
	")":  "parenright",
	"_":  "underscore",
	"+":  "plus",
	"{":  "braceleft",
	"}":  "braceright",
	"|":  "bar",
	":":  "colon",
	"\"": "quotedbl",
	"<":  "less",
	">":  "greater",
	"?":  "question",
	"~":  "asciitilde",
}

// defaultKeyNames maps lowercase Talon key names to dotool key names.
// Names absent from the table are passed through unchanged.
var defaultKeyNames = map[string]string{
	"escape":      "esc",
	"return":      "enter",
	"pgup":        "pageup",
	"page_up":     "pageup",
	"pgdn":        "pagedown",
	"pgdown":      "pagedown",
	"page_down":   "pagedown",
	"del":         "delete",
	"ins":         "insert",
	"bksp":        "backspace",
	"spacebar":    "space",
	"caps":        "capslock",
	"caps_lock":   "capslock",
	"num_lock":    "numlock",
	"scroll_lock": "scrolllock",
	"printscr":    "print",
	"printscreen": "print",
	"dot":         "period",
	"point":       "period",
	"dash":        "minus",
	"hyphen":      "minus",
	"equals":      "equal",
	"quote":       "apostrophe",
	"backtick":    "grave",
	"lbracket":    "bracketleft",
	"rbracket":    "bracketright",
	"lbrace":      "braceleft",
	"rbrace":      "braceright",
	"lparen":      "parenleft",
	"rparen":      "parenright",
	"volup":       "volumeup",
	"voldown":     "volumedown",
}

// Keymap holds the lookup tables used to translate chords.
// A Keymap is immutable after construction.
type Keymap struct {
	modifiers map[string]string
	symbols   map[string]string
	names     map[string]string
}

// Overrides are user-supplied table entries layered over a Keymap.
type Overrides struct {
	Modifiers map[string]string
	Symbols   map[string]string
	Keys      map[string]string
}

// IsEmpty returns true if no override entries are set.
func (o Overrides) IsEmpty() bool {
	return len(o.Modifiers) == 0 && len(o.Symbols) == 0 && len(o.Keys) == 0
}

var defaultKeymap = &Keymap{
	modifiers: defaultModifierAliases,
	symbols:   defaultSymbolKeys,
	names:     defaultKeyNames,
}

// DefaultKeymap returns the built-in keymap.
func DefaultKeymap() *Keymap {
	return defaultKeymap
}

// Merge returns a new Keymap with the override entries layered on top of km.
// km itself is left untouched.
func (km *Keymap) Merge(o Overrides) *Keymap {
	if o.IsEmpty() {
		return km
	}
	return &Keymap{
		modifiers: mergeTable(km.modifiers, o.Modifiers),
		symbols:   mergeTable(km.symbols, o.Symbols),
		names:     mergeTable(km.names, lowerKeys(o.Keys)),
	}
}

func mergeTable(base, over map[string]string) map[string]string {
	if len(over) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}

// lowerKeys lowercases table keys; key names are looked up after lowercasing.
func lowerKeys(m map[string]string) map[string]string {
	if len(m) == 0 {
		return m
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Modifier returns the dotool name for a Talon modifier alias.
func (km *Keymap) Modifier(alias string) (string, bool) {
	mod, ok := km.modifiers[alias]
	return mod, ok
}

// NormalizeKey converts a Talon key name or symbol to a dotool key name.
//
// Resolution order:
//  1. exact symbol match (",", "[", ...)
//  2. "keypad_X" becomes "kpX"
//  3. lowercase, except raw "x:" and "k:" keycodes which keep their case
//  4. key-name table lookup, falling back to the name itself
func (km *Keymap) NormalizeKey(name string) string {
	if name == "" {
		return name
	}
	if sym, ok := km.symbols[name]; ok {
		return sym
	}
	if rest, ok := strings.CutPrefix(name, keypadPrefix); ok {
		return "kp" + rest
	}
	if !isRawKeycode(name) {
		name = strings.ToLower(name)
	}
	if mapped, ok := km.names[name]; ok {
		return mapped
	}
	return name
}

func isRawKeycode(name string) bool {
	return strings.HasPrefix(name, "x:") || strings.HasPrefix(name, "k:")
}
