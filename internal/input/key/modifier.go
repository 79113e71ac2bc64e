package key

import "strings"

// Dotool modifier names.
const (
	ModCtrl  = "ctrl"
	ModShift = "shift"
	ModAlt   = "alt"
	ModSuper = "super"
	ModAltGr = "altgr"
)

// defaultModifierAliases maps Talon modifier names to dotool modifier names.
// Lookups are case-sensitive; Talon only emits lowercase modifier names.
var defaultModifierAliases = map[string]string{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"super":   ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"win":     ModSuper,
	"windows": ModSuper,
	"meta":    ModSuper,
	"altgr":   ModAltGr,
	"lctrl":   "leftctrl",
	"rctrl":   "rightctrl",
	"lshift":  "leftshift",
	"rshift":  "rightshift",
	"lalt":    "leftalt",
	"ralt":    "rightalt",
	"lsuper":  "leftmeta",
	"rsuper":  "rightmeta",
}

// Modifiers is an ordered list of dotool modifier names.
// Order matters: it is the order modifiers are pressed in.
type Modifiers []string

// Has returns true if m contains the named modifier.
func (m Modifiers) Has(name string) bool {
	for _, mod := range m {
		if mod == name {
			return true
		}
	}
	return false
}

// With returns a copy of m with name appended.
func (m Modifiers) With(name string) Modifiers {
	out := make(Modifiers, len(m), len(m)+1)
	copy(out, m)
	return append(out, name)
}

// IsEmpty returns true if no modifiers are set.
func (m Modifiers) IsEmpty() bool {
	return len(m) == 0
}

// String returns the modifiers joined with "+", e.g. "ctrl+shift".
func (m Modifiers) String() string {
	return strings.Join(m, "+")
}
