package key

import (
	"reflect"
	"testing"
)

func TestParseSuffix(t *testing.T) {
	tests := []struct {
		spec       string
		wantBase   string
		wantVerb   Verb
		wantRepeat int
	}{
		{"a", "a", VerbKey, 1},
		{"a:4", "a", VerbKey, 4},
		{"a:0", "a", VerbKey, 1},
		{"a:down", "a", VerbKeyDown, 1},
		{"a:up", "a", VerbKeyUp, 1},
		{"a:Down", "a:Down", VerbKey, 1},
		{"a:", "a:", VerbKey, 1},
		{"a:1:2", "a:1", VerbKey, 2},
		{"a:x:down", "a:x", VerbKeyDown, 1},
		{"a:1500", "a", VerbKey, 1500},
		{"a:99999999999999999999", "a:99999999999999999999", VerbKey, 1},
	}

	for _, tt := range tests {
		base, verb, repeat := parseSuffix(tt.spec)
		if base != tt.wantBase || verb != tt.wantVerb || repeat != tt.wantRepeat {
			t.Errorf("parseSuffix(%q) = (%q, %q, %d), want (%q, %q, %d)",
				tt.spec, base, verb, repeat, tt.wantBase, tt.wantVerb, tt.wantRepeat)
		}
	}
}

func TestSplitModifiers(t *testing.T) {
	km := DefaultKeymap()
	tests := []struct {
		chord    string
		wantMods Modifiers
		wantKey  string
	}{
		{"a", nil, "a"},
		{"ctrl-a", Modifiers{"ctrl"}, "a"},
		{"control-option-a", Modifiers{"ctrl", "alt"}, "a"},
		{"ctrl-shift", Modifiers{"ctrl", "shift"}, ""},
		{"ctrl-", Modifiers{"ctrl"}, ""},
		{"ctrl--", Modifiers{"ctrl"}, "-"},
		{"a-ctrl", nil, "a-ctrl"},
		{"Ctrl-a", nil, "Ctrl-a"},
	}

	for _, tt := range tests {
		mods, name := km.splitModifiers(tt.chord)
		if !reflect.DeepEqual(mods, tt.wantMods) || name != tt.wantKey {
			t.Errorf("splitModifiers(%q) = (%v, %q), want (%v, %q)",
				tt.chord, mods, name, tt.wantMods, tt.wantKey)
		}
	}
}

func TestNormalizeUpper(t *testing.T) {
	tests := []struct {
		mods     Modifiers
		name     string
		wantMods Modifiers
		wantKey  string
	}{
		{nil, "a", nil, "a"},
		{nil, "A", Modifiers{"shift"}, "a"},
		{Modifiers{"ctrl"}, "Q", Modifiers{"ctrl", "shift"}, "q"},
		{Modifiers{"shift"}, "Q", Modifiers{"shift"}, "q"},
		{nil, "F1", nil, "F1"},
		{nil, "1", nil, "1"},
		{nil, "Ä", Modifiers{"shift"}, "ä"},
		{nil, "", nil, ""},
	}

	for _, tt := range tests {
		mods, name := normalizeUpper(tt.mods, tt.name)
		if !reflect.DeepEqual(mods, tt.wantMods) || name != tt.wantKey {
			t.Errorf("normalizeUpper(%v, %q) = (%v, %q), want (%v, %q)",
				tt.mods, tt.name, mods, name, tt.wantMods, tt.wantKey)
		}
	}
}

func TestNormalizeUpperDoesNotAlias(t *testing.T) {
	base := make(Modifiers, 1, 4)
	base[0] = "ctrl"
	mods, _ := normalizeUpper(base, "A")
	mods[0] = "alt"
	if base[0] != "ctrl" {
		t.Error("normalizeUpper should not share storage with its input")
	}
}

func TestParseChord(t *testing.T) {
	km := DefaultKeymap()

	chord, ok := km.ParseChord("  ctrl-shift-F:2 ")
	if !ok {
		t.Fatal("ParseChord returned ok=false for a valid chord")
	}
	want := Chord{Verb: VerbKey, Modifiers: Modifiers{"ctrl", "shift"}, Key: "f", Repeat: 2}
	if !reflect.DeepEqual(chord, want) {
		t.Errorf("ParseChord = %+v, want %+v", chord, want)
	}
	if chord.String() != "ctrl+shift+f" {
		t.Errorf("Chord.String() = %q, want %q", chord.String(), "ctrl+shift+f")
	}

	if _, ok := km.ParseChord("   "); ok {
		t.Error("ParseChord should return ok=false for blank input")
	}
}
