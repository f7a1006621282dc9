package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/ui/textutil"
)

// StatusBarData carries everything the bottom bar displays. The app fills
// it from live state on every render so the bar never goes stale.
type StatusBarData struct {
	Mode        AppMode
	Recording   bool
	Elapsed     time.Duration
	SubjectID   string
	Endpoint    string
	UDPEnabled  bool
	Packets     uint64
	Bytes       uint64
	MirrorOn    bool
	MirrorUp    bool
	Status      string
	StatusIsErr bool
	Width       int
}

var statusBarModes = []AppMode{ModeMonitor, ModeDevices, ModeSettings, ModeSessions}

// RenderStatusBar renders the single-line bar shown at the bottom of the
// app: mode tabs, recording state, transport counters, and the last status
// message. The status message is truncated first when space runs out.
func RenderStatusBar(d StatusBarData) string {
	sep := Styles.Muted.Render(" │ ")

	segments := []string{
		renderModeTabs(d.Mode),
		renderRecording(d),
		renderTransport(d),
	}
	if d.MirrorOn {
		segments = append(segments, renderMirror(d.MirrorUp))
	}
	bar := strings.Join(segments, sep)

	if d.Status == "" {
		return bar
	}

	style := Styles.Hint
	if d.StatusIsErr {
		style = Styles.Danger
	}
	status := d.Status
	if d.Width > 0 {
		room := d.Width - textutil.VisualWidthStyled(bar) - textutil.VisualWidthStyled(sep)
		if room <= 0 {
			return bar
		}
		status = textutil.Truncate(status, room)
	}
	return bar + sep + style.Render(status)
}

func renderModeTabs(current AppMode) string {
	tabs := make([]string, 0, len(statusBarModes))
	for _, m := range statusBarModes {
		label := fmt.Sprintf("%d:%s", int(m)+1, m)
		if m == current {
			tabs = append(tabs, Styles.Selected.Render(label))
		} else {
			tabs = append(tabs, Styles.Muted.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func renderRecording(d StatusBarData) string {
	if !d.Recording {
		return Styles.Muted.Render("○ idle")
	}
	subject := d.SubjectID
	if subject == "" {
		subject = "anon"
	}
	return Styles.Danger.Render("● REC "+monitor.FormatElapsed(d.Elapsed)) +
		" " + Styles.Normal.Render(subject)
}

func renderTransport(d StatusBarData) string {
	if !d.UDPEnabled {
		return Styles.Muted.Render("udp off")
	}
	return Styles.Details.Render(fmt.Sprintf("udp %s  %s pkt  %s",
		d.Endpoint,
		humanize.Comma(int64(d.Packets)),
		humanize.Bytes(d.Bytes),
	))
}

func renderMirror(up bool) string {
	if up {
		return Styles.Status.Render("mqtt ●")
	}
	return Styles.Details.Render("mqtt ○")
}
