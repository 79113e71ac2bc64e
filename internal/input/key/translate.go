package key

import "strings"

// Translator converts Talon key specs to dotool actions using a
// fixed Keymap. It holds no mutable state and is safe for concurrent use.
type Translator struct {
	keymap *Keymap
}

// NewTranslator creates a translator for km. A nil keymap uses DefaultKeymap.
func NewTranslator(km *Keymap) *Translator {
	if km == nil {
		km = DefaultKeymap()
	}
	return &Translator{keymap: km}
}

// Keymap returns the translator's keymap.
func (t *Translator) Keymap() *Keymap {
	return t.keymap
}

// Translate converts a whitespace-separated key spec into dotool
// actions. Chords are translated left to right and their actions concatenated.
func (t *Translator) Translate(spec string) []Action {
	var actions []Action
	for _, field := range strings.Fields(spec) {
		chord, ok := t.keymap.ParseChord(field)
		if !ok {
			continue
		}
		actions = append(actions, chord.Actions()...)
	}
	return actions
}

var defaultTranslator = NewTranslator(nil)

// Translate converts spec to dotool lines using the default keymap.
// It never fails; blank input yields an empty list.
func Translate(spec string) []string {
	return Lines(defaultTranslator.Translate(spec))
}
