package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// keyMsg builds a tea.KeyMsg for a key string.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	called := false
	reg.Bind("SPC s s", func() tea.Msg {
		called = true
		return nil
	})

	cmd := reg.Lookup("SPC s s")
	if cmd == nil {
		t.Fatal("expected binding for SPC s s")
	}
	cmd()
	if !called {
		t.Error("expected bound command to run")
	}

	if reg.Lookup("SPC s x") != nil {
		t.Error("expected no binding for SPC s x")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	executed := false
	reg.Bind("SPC x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg(" "))
	if !consumed {
		t.Fatal("leader key should be consumed")
	}
	if cmd != nil {
		t.Fatal("leader key alone should not produce a command")
	}
	if !h.LeaderWaiting {
		t.Fatal("handler should be waiting after leader key")
	}

	consumed, cmd = h.Handle(keyMsg("x"))
	if !consumed {
		t.Fatal("bound key should be consumed")
	}
	if cmd == nil {
		t.Fatal("expected command for SPC x")
	}
	cmd()
	if !executed {
		t.Error("expected SPC x command to run")
	}
	if h.LeaderWaiting {
		t.Error("leader mode should clear after a match")
	}
}

func TestKeyHandler_MultiKeySequence(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC s m", func() tea.Msg { return nil })
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("s"))
	if !consumed || cmd != nil {
		t.Fatal("prefix key should be consumed without a command")
	}
	if !h.LeaderWaiting {
		t.Fatal("handler should stay in leader mode on a prefix")
	}

	_, cmd = h.Handle(keyMsg("m"))
	if cmd == nil {
		t.Fatal("expected command for SPC s m")
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", func() tea.Msg { return nil })
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	if !h.LeaderWaiting {
		t.Fatal("handler should be waiting after leader key")
	}

	consumed, cmd := h.Handle(keyMsg("esc"))
	if !consumed {
		t.Error("esc should be consumed in leader mode")
	}
	if cmd != nil {
		t.Error("esc should not produce a command")
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
	if h.Buffer != nil {
		t.Error("esc should clear the buffer")
	}
}

func TestKeyHandler_SingleKey(t *testing.T) {
	reg := NewKeybindRegistry()
	executed := false
	reg.Bind("q", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg("q"))
	if !consumed || cmd == nil {
		t.Fatal("expected single-key binding to match")
	}
	cmd()
	if !executed {
		t.Error("expected q command to run")
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", func() tea.Msg { return nil })
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg("j"))
	if consumed {
		t.Error("unbound key should not be consumed")
	}
	if cmd != nil {
		t.Error("unbound key should not produce a command")
	}
}

func TestKeyHandler_UnboundInLeaderModeClears(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", func() tea.Msg { return nil })
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("z"))
	if !consumed {
		t.Error("keys in leader mode are consumed even when unbound")
	}
	if cmd != nil {
		t.Error("unbound sequence should not produce a command")
	}
	if h.LeaderWaiting {
		t.Error("unbound sequence should exit leader mode")
	}
}

func TestLeaderHints_ModeFilter(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC i", func() tea.Msg { return nil }, "Subject info")
	reg.BindWithDescForMode("SPC r", func() tea.Msg { return nil }, "Refresh", []AppMode{ModeDevices, ModeSessions})

	hints := reg.LeaderHints("", ModeMonitor)
	if _, ok := hints["i"]; !ok {
		t.Error("unfiltered binding should appear in every mode")
	}
	if _, ok := hints["r"]; ok {
		t.Error("mode-filtered binding should not appear in monitor mode")
	}

	hints = reg.LeaderHints("", ModeDevices)
	if got := hints["r"]; got != "Refresh" {
		t.Errorf("expected Refresh hint in devices mode, got %q", got)
	}
}

func TestLeaderHints_SubmenuLabel(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC s s", func() tea.Msg { return nil }, "Start session")
	reg.BindWithDesc("SPC s x", func() tea.Msg { return nil }, "Stop session")

	hints := reg.LeaderHints("", ModeMonitor)
	if got := hints["s"]; got != "Session" {
		t.Errorf("expected submenu label Session for s, got %q", got)
	}

	hints = reg.LeaderHints("SPC s", ModeMonitor)
	if got := hints["s"]; got != "Start session" {
		t.Errorf("expected Start session at second level, got %q", got)
	}
	if got := hints["x"]; got != "Stop session" {
		t.Errorf("expected Stop session at second level, got %q", got)
	}
}

func TestNormalizeSeq(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"space", "SPC"},
		{"space s", "SPC s"},
		{"SPC  s", "SPC s"},
		{"ctrl+c", "ctrl+c"},
		{"j", "j"},
	}
	for _, c := range cases {
		if got := normalizeSeq(c.in); got != c.want {
			t.Errorf("normalizeSeq(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
