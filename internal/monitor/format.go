package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

// Placeholder stands in for a stream that has not reported yet. The line is
// still emitted so the rhythm of the log stays stable.
const Placeholder = "--"

const separatorText = "────────────────────────────"

// TickEntries formats one tick batch from the snapshot: one line per
// non-HR monitor stream, one HR line per device that has reported, and a
// trailing separator. Output is deterministic given the snapshot contents
// and elapsed time.
func TickEntries(snap *signal.Snapshot, elapsed time.Duration) []Entry {
	stamp := FormatElapsed(elapsed)
	entries := make([]Entry, 0, len(signal.MonitorKinds)+3)

	for _, k := range signal.MonitorKinds {
		v, ok := snap.Value(k)
		entries = append(entries, Entry{
			Text: fmt.Sprintf("[%s] %s", stamp, formatValue(k, v, ok)),
			Tone: ToneSignal,
		})
	}

	devices := snap.Devices()
	if len(devices) == 0 {
		entries = append(entries, Entry{
			Text: fmt.Sprintf("[%s] %s %s", stamp, signal.KindHR.Label(), Placeholder),
			Tone: ToneSignal,
		})
	}
	for _, id := range devices {
		v, ok := snap.HeartRate(id)
		entries = append(entries, Entry{
			Text: fmt.Sprintf("[%s] %s (%s)", stamp, formatValue(signal.KindHR, v, ok), id),
			Tone: ToneSignal,
		})
	}

	entries = append(entries, Entry{Text: separatorText, Tone: ToneMuted})
	return entries
}

// LifecycleEntry formats a session start/stop line.
func LifecycleEntry(event, subjectID string, elapsed time.Duration) Entry {
	text := fmt.Sprintf("[%s] session %s", FormatElapsed(elapsed), event)
	if subjectID != "" {
		text += fmt.Sprintf(" (subject %s)", subjectID)
	}
	return Entry{Text: text, Tone: ToneLifecycle}
}

// MarkerEntry formats a marker line.
func MarkerEntry(label string, elapsed time.Duration) Entry {
	return Entry{
		Text: fmt.Sprintf("[%s] ◆ marker: %s", FormatElapsed(elapsed), label),
		Tone: ToneMarker,
	}
}

// DeviceEntry formats a device connection transition line.
func DeviceEntry(deviceID, what string, elapsed time.Duration, alert bool) Entry {
	tone := ToneLifecycle
	if alert {
		tone = ToneAlert
	}
	return Entry{
		Text: fmt.Sprintf("[%s] %s %s", FormatElapsed(elapsed), deviceID, what),
		Tone: tone,
	}
}

// formatValue renders "KIND value unit", or the placeholder when the stream
// has not reported.
func formatValue(k signal.Kind, v int, ok bool) string {
	if !ok {
		return fmt.Sprintf("%s %s", k.Label(), Placeholder)
	}
	if unit := k.Unit(); unit != "" {
		return fmt.Sprintf("%s %d %s", k.Label(), v, unit)
	}
	return fmt.Sprintf("%s %d", k.Label(), v)
}

// FormatElapsed renders a session-elapsed stamp: mm:ss under an hour,
// h:mm:ss beyond. Negative durations clamp to zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	s := (d - m*time.Minute) / time.Second
	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%d:%02d:%02d", h, m, s)
	} else {
		fmt.Fprintf(&b, "%02d:%02d", m, s)
	}
	return b.String()
}
