package key

import "strings"

// Action is a single dotool command line.
type Action struct {
	Verb  Verb
	Chord string
}

// String returns the dotool line, e.g. "key ctrl+a".
func (a Action) String() string {
	return string(a.Verb) + " " + a.Chord
}

// Lines returns the dotool lines for actions, in order.
func Lines(actions []Action) []string {
	lines := make([]string, len(actions))
	for i, a := range actions {
		lines[i] = a.String()
	}
	return lines
}

// FormatBatch renders actions as newline-terminated dotool input.
// An empty action list renders as the empty string.
func FormatBatch(actions []Action) string {
	if len(actions) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range actions {
		b.WriteString(a.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Actions returns the dotool actions for a parsed chord.
func (c Chord) Actions() []Action {
	switch {
	case c.Verb != VerbKey:
		if c.IsEmpty() {
			return nil
		}
		return []Action{{Verb: c.Verb, Chord: c.String()}}
	case c.Key != "":
		chord := c.String()
		actions := make([]Action, c.Repeat)
		for i := range actions {
			actions[i] = Action{Verb: VerbKey, Chord: chord}
		}
		return actions
	case c.IsModifierOnly():
		return modifierTap(c.Modifiers)
	}
	return nil
}

// modifierTap presses each modifier in order and releases them in reverse.
func modifierTap(mods Modifiers) []Action {
	actions := make([]Action, 0, 2*len(mods))
	for _, mod := range mods {
		actions = append(actions, Action{Verb: VerbKeyDown, Chord: mod})
	}
	for i := len(mods) - 1; i >= 0; i-- {
		actions = append(actions, Action{Verb: VerbKeyUp, Chord: mods[i]})
	}
	return actions
}
