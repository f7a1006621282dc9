package ui

import (
	"strings"
	"testing"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/device"
)

func testStatuses() []device.Status {
	return []device.Status{
		{ID: "H10-8C2B1D", Name: "Polar H10", State: device.StateDisconnected},
		{ID: "VS-3F9A2C", Name: "Polar Verity Sense", State: device.StateStreaming, RSSI: -64, Battery: 92},
	}
}

func TestDevicesView_Empty(t *testing.T) {
	v := NewDevicesView(nil)
	if !strings.Contains(v.View(), "(no device profiles loaded)") {
		t.Error("empty device list should render the placeholder")
	}
}

func TestDevicesView_Render(t *testing.T) {
	v := NewDevicesView(device.BuiltinProfiles())
	v.SetStatuses(testStatuses())

	view := v.View()
	if !strings.Contains(view, "Polar H10") || !strings.Contains(view, "Polar Verity Sense") {
		t.Error("expected both devices in the list")
	}
	if !strings.Contains(view, "ecg 130 Hz") {
		t.Error("expected the profile stream rates under the device")
	}
	if !strings.Contains(view, "-64 dBm") || !strings.Contains(view, "92%") {
		t.Error("expected RSSI and battery for the connected device")
	}
}

func TestDevicesView_HeartRate(t *testing.T) {
	v := NewDevicesView(nil)
	v.SetStatuses(testStatuses())
	v.SetHeartRates(map[string]int{
		"VS-3F9A2C":  87,
		"H10-8C2B1D": 72, // disconnected, must stay hidden
	})

	view := v.View()
	if !strings.Contains(view, "87 bpm") {
		t.Error("expected the streaming device's heart rate")
	}
	if strings.Contains(view, "72 bpm") {
		t.Error("a disconnected device must not show a heart rate")
	}
}

func TestDevicesView_Cursor(t *testing.T) {
	v := NewDevicesView(nil)
	v.SetStatuses(testStatuses())

	v.Update(keyMsg("j"))
	if v.Selected != 1 {
		t.Errorf("Selected = %d after j, want 1", v.Selected)
	}
	v.Update(keyMsg("j"))
	if v.Selected != 1 {
		t.Errorf("Selected = %d, cursor must stop at the last device", v.Selected)
	}
	v.Update(keyMsg("k"))
	if v.Selected != 0 {
		t.Errorf("Selected = %d after k, want 0", v.Selected)
	}
}

func TestDevicesView_EnterConnectsOrDisconnects(t *testing.T) {
	v := NewDevicesView(nil)
	v.SetStatuses(testStatuses())

	_, cmd := v.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter on a device should produce a command")
	}
	msg := cmd()
	connect, ok := msg.(ConnectDeviceMsg)
	if !ok || connect.ID != "H10-8C2B1D" {
		t.Fatalf("enter on a disconnected device produced %#v, want connect", msg)
	}

	v.Update(keyMsg("j"))
	_, cmd = v.Update(keyMsg("enter"))
	msg = cmd()
	disconnect, ok := msg.(DisconnectDeviceMsg)
	if !ok || disconnect.ID != "VS-3F9A2C" {
		t.Fatalf("enter on a streaming device produced %#v, want disconnect", msg)
	}
}

func TestDevicesView_DropLink(t *testing.T) {
	v := NewDevicesView(nil)
	v.SetStatuses(testStatuses())
	v.Selected = 1

	_, cmd := v.Update(keyMsg("x"))
	if cmd == nil {
		t.Fatal("x should produce a command")
	}
	drop, ok := cmd().(DropLinkMsg)
	if !ok || drop.ID != "VS-3F9A2C" {
		t.Fatalf("x produced %#v, want DropLinkMsg for VS-3F9A2C", drop)
	}
}

func TestDevicesView_SetStatusesResetsStaleCursor(t *testing.T) {
	v := NewDevicesView(nil)
	v.SetStatuses(testStatuses())
	v.Selected = 1

	v.SetStatuses(testStatuses()[:1])
	if v.Selected != 0 {
		t.Errorf("Selected = %d after the list shrank, want 0", v.Selected)
	}
}
