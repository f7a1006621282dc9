package ui

import (
	"testing"
)

func TestEndpointSheet_Prefill(t *testing.T) {
	m := NewEndpointSheetModal("192.168.1.20", 9000)

	if got := m.host.Value(); got != "192.168.1.20" {
		t.Errorf("host input = %q, want 192.168.1.20", got)
	}
	if got := m.port.Value(); got != "9000" {
		t.Errorf("port input = %q, want 9000", got)
	}
}

func TestEndpointSheet_TabTogglesFocus(t *testing.T) {
	m := NewEndpointSheetModal("", 0)
	if m.focus.Current != fieldEndpointHost {
		t.Fatalf("focus = %q, want host first", m.focus.Current)
	}

	m.Update(keyMsg("tab"))
	if m.focus.Current != fieldEndpointPort || !m.port.Focused() {
		t.Error("tab should focus the port field")
	}
	m.Update(keyMsg("tab"))
	if m.focus.Current != fieldEndpointHost {
		t.Error("tab should wrap back to the host field")
	}

	m.Update(keyMsg("tab"))
	m.Update(keyMsg("shift+tab"))
	if m.focus.Current != fieldEndpointHost || !m.host.Focused() {
		t.Error("shift+tab should move focus back to the host field")
	}
}

func TestEndpointSheet_Validation(t *testing.T) {
	cases := []struct {
		name    string
		host    string
		port    string
		wantErr string
	}{
		{"missing host", "", "9000", "host is required"},
		{"port not a number", "10.0.0.5", "next", "port must be 1-65535"},
		{"port zero", "10.0.0.5", "0", "port must be 1-65535"},
		{"port too high", "10.0.0.5", "70000", "port must be 1-65535"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewEndpointSheetModal("", 0)
			m.host.SetValue(c.host)
			m.port.SetValue(c.port)

			_, cmd := m.Update(keyMsg("enter"))
			if cmd != nil {
				t.Fatal("invalid input must not save")
			}
			if m.err != c.wantErr {
				t.Errorf("err = %q, want %q", m.err, c.wantErr)
			}
		})
	}
}

func TestEndpointSheet_Save(t *testing.T) {
	m := NewEndpointSheetModal("", 0)
	m.host.SetValue(" 10.0.0.5 ")
	m.port.SetValue("9100")

	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("valid input should save")
	}
	saved, ok := cmd().(EndpointSavedMsg)
	if !ok || saved.Host != "10.0.0.5" || saved.Port != 9100 {
		t.Errorf("enter produced %#v, want 10.0.0.5:9100", saved)
	}
}
