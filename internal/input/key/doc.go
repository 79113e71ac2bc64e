// Package key translates Talon key specs into dotool actions.
//
// A key spec is a whitespace-separated list of chords:
//
//   - Plain keys: "a", "esc", "enter", ","
//   - With modifiers: "ctrl-s", "ctrl-shift-p", "super-1"
//   - Press/release: "ctrl:down", "ctrl:up"
//   - Repeats: "esc:3", "backspace:10"
//
// Each chord becomes one or more Action values whose String form is a dotool
// command line:
//
//	key ctrl+shift+p
//	keydown ctrl
//	keyup ctrl
//
// # Keymaps
//
// Modifier names, punctuation symbols and key names are resolved through a
// Keymap. DefaultKeymap returns the built-in tables; Merge layers user
// overrides on top and returns a new value. A Keymap is never modified after
// construction, so a Translator can be shared freely.
//
// # Failure behavior
//
// Translation never fails. Unknown modifiers, malformed suffixes and unknown
// key names fall through to a literal interpretation and are passed to dotool
// as written.
package key
