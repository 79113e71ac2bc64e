package key

import (
	"reflect"
	"testing"
)

func TestFormatBatch(t *testing.T) {
	tests := []struct {
		actions []Action
		want    string
	}{
		{nil, ""},
		{[]Action{{VerbKey, "ctrl+a"}}, "key ctrl+a\n"},
		{[]Action{{VerbKeyDown, "shift"}, {VerbKey, "a"}, {VerbKeyUp, "shift"}}, "keydown shift\nkey a\nkeyup shift\n"},
	}

	for _, tt := range tests {
		if got := FormatBatch(tt.actions); got != tt.want {
			t.Errorf("FormatBatch(%v) = %q, want %q", tt.actions, got, tt.want)
		}
	}
}

func TestChordActions(t *testing.T) {
	tests := []struct {
		name  string
		chord Chord
		want  []string
	}{
		{"empty key verb", Chord{Verb: VerbKey, Repeat: 1}, nil},
		{"empty keydown", Chord{Verb: VerbKeyDown, Repeat: 1}, nil},
		{"modifier keyup", Chord{Verb: VerbKeyUp, Modifiers: Modifiers{"ctrl", "alt"}, Repeat: 1}, []string{"keyup ctrl+alt"}},
		{"repeat", Chord{Verb: VerbKey, Key: "tab", Repeat: 2}, []string{"key tab", "key tab"}},
		{"tap three", Chord{Verb: VerbKey, Modifiers: Modifiers{"ctrl", "alt", "shift"}, Repeat: 5},
			[]string{"keydown ctrl", "keydown alt", "keydown shift", "keyup shift", "keyup alt", "keyup ctrl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, a := range tt.chord.Actions() {
				got = append(got, a.String())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Actions() = %q, want %q", got, tt.want)
			}
		})
	}
}
