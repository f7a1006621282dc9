package ui

import (
	"strings"
	"testing"
)

func TestSuggestPreset(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"baseline", ""}, // exact matches need no suggestion
		{"base", "baseline"},
		{"re", "recovery"}, // first prefix match wins
		{"stimulu", "stimulus"},
		{"rset", "rest"}, // one transposition away
		{"  BASE ", "baseline"},
		{"zzz", ""}, // nothing close enough
	}
	for _, c := range cases {
		if got := suggestPreset(c.in); got != c.want {
			t.Errorf("suggestPreset(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMarkerSheet_TabAcceptsSuggestion(t *testing.T) {
	m := NewMarkerSheetModal()
	for _, r := range "base" {
		m.Update(keyMsg(string(r)))
	}
	if m.suggestion != "baseline" {
		t.Fatalf("suggestion = %q after typing base, want baseline", m.suggestion)
	}

	m.Update(keyMsg("tab"))
	if got := m.input.Value(); got != "baseline" {
		t.Errorf("input = %q after tab, want baseline", got)
	}
	if m.suggestion != "" {
		t.Error("accepting should clear the suggestion")
	}
}

func TestMarkerSheet_EnterSubmits(t *testing.T) {
	m := NewMarkerSheetModal()
	m.input.SetValue(" stimulus ")

	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter should submit")
	}
	set, ok := cmd().(SetMarkerMsg)
	if !ok || set.Label != "stimulus" {
		t.Errorf("enter produced %#v, want a trimmed stimulus marker", set)
	}
}

func TestMarkerSheet_EmptyLabelAllowed(t *testing.T) {
	m := NewMarkerSheetModal()

	_, cmd := m.Update(keyMsg("enter"))
	set, ok := cmd().(SetMarkerMsg)
	if !ok || set.Label != "" {
		t.Errorf("enter produced %#v, want an empty label", set)
	}
}

func TestMarkerSheet_RendersPresets(t *testing.T) {
	m := NewMarkerSheetModal()
	view := m.View()
	if !strings.Contains(view, "presets:") || !strings.Contains(view, "baseline") {
		t.Error("the sheet should list the preset labels")
	}
}
