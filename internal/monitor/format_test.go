package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

func TestTickEntriesWithValues(t *testing.T) {
	snap := signal.NewSnapshot()
	snap.Observe(signal.Sample{Kind: signal.KindECG, DeviceID: "H10-8C2B1D", Value: 1523})
	snap.Observe(signal.Sample{Kind: signal.KindPPG, DeviceID: "SENSE-A44F2C", Value: 201584})
	snap.Observe(signal.Sample{Kind: signal.KindRR, DeviceID: "H10-8C2B1D", Value: 812})
	snap.Observe(signal.Sample{Kind: signal.KindPPI, DeviceID: "SENSE-A44F2C", Value: 809})
	snap.Observe(signal.Sample{Kind: signal.KindHR, DeviceID: "H10-8C2B1D", Value: 74})
	snap.Observe(signal.Sample{Kind: signal.KindHR, DeviceID: "SENSE-A44F2C", Value: 71})

	entries := TickEntries(snap, 12*time.Second)

	// ECG, PPG, RR, PPI + two HR lines + separator.
	if len(entries) != 7 {
		t.Fatalf("TickEntries returned %d entries, want 7", len(entries))
	}

	want := []string{
		"[00:12] ECG 1523 µV",
		"[00:12] PPG 201584",
		"[00:12] RR 812 ms",
		"[00:12] PPI 809 ms",
		"[00:12] HR 74 bpm (H10-8C2B1D)",
		"[00:12] HR 71 bpm (SENSE-A44F2C)",
	}
	for i, w := range want {
		if entries[i].Text != w {
			t.Errorf("entry %d = %q, want %q", i, entries[i].Text, w)
		}
		if entries[i].Tone != ToneSignal {
			t.Errorf("entry %d tone = %v, want ToneSignal", i, entries[i].Tone)
		}
	}
	if entries[6].Tone != ToneMuted {
		t.Errorf("separator tone = %v, want ToneMuted", entries[6].Tone)
	}
}

func TestTickEntriesPlaceholders(t *testing.T) {
	snap := signal.NewSnapshot()
	entries := TickEntries(snap, 2*time.Second)

	// Four stream lines, one HR placeholder line, separator: absent values
	// never drop lines.
	if len(entries) != 6 {
		t.Fatalf("TickEntries returned %d entries, want 6", len(entries))
	}
	for _, e := range entries[:5] {
		if !strings.Contains(e.Text, Placeholder) {
			t.Errorf("expected placeholder in %q", e.Text)
		}
	}
	if entries[0].Text != "[00:02] ECG --" {
		t.Errorf("ECG placeholder line = %q", entries[0].Text)
	}
	if entries[4].Text != "[00:02] HR --" {
		t.Errorf("HR placeholder line = %q", entries[4].Text)
	}
}

func TestTickEntriesDeterministic(t *testing.T) {
	snap := signal.NewSnapshot()
	snap.Observe(signal.Sample{Kind: signal.KindECG, DeviceID: "h10", Value: 100})
	snap.Observe(signal.Sample{Kind: signal.KindHR, DeviceID: "h10", Value: 70})

	a := TickEntries(snap, 30*time.Second)
	b := TickEntries(snap, 30*time.Second)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("entry %d differs: %q vs %q", i, a[i].Text, b[i].Text)
		}
	}
}

func TestLifecycleAndMarkerEntries(t *testing.T) {
	e := LifecycleEntry("started", "sub001", 0)
	if e.Text != "[00:00] session started (subject sub001)" {
		t.Errorf("lifecycle text = %q", e.Text)
	}
	if e.Tone != ToneLifecycle {
		t.Errorf("lifecycle tone = %v", e.Tone)
	}

	e = LifecycleEntry("stopped", "", 95*time.Second)
	if e.Text != "[01:35] session stopped" {
		t.Errorf("lifecycle text = %q", e.Text)
	}

	m := MarkerEntry("baseline start", 61*time.Second)
	if m.Text != "[01:01] ◆ marker: baseline start" {
		t.Errorf("marker text = %q", m.Text)
	}
	if m.Tone != ToneMarker {
		t.Errorf("marker tone = %v", m.Tone)
	}
}

func TestDeviceEntryTones(t *testing.T) {
	e := DeviceEntry("H10-8C2B1D", "connected", 4*time.Second, false)
	if e.Tone != ToneLifecycle {
		t.Errorf("device entry tone = %v, want ToneLifecycle", e.Tone)
	}
	e = DeviceEntry("H10-8C2B1D", "connection lost, reconnecting", 9*time.Second, true)
	if e.Tone != ToneAlert {
		t.Errorf("alert entry tone = %v, want ToneAlert", e.Tone)
	}
	if e.Text != "[00:09] H10-8C2B1D connection lost, reconnecting" {
		t.Errorf("device entry text = %q", e.Text)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{2 * time.Second, "00:02"},
		{59 * time.Second, "00:59"},
		{60 * time.Second, "01:00"},
		{61*time.Minute + 5*time.Second, "1:01:05"},
		{-3 * time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
