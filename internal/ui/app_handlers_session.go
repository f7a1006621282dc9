package ui

import (
	"fmt"
	"net"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/archive"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/config"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/report"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/udp"
)

// handleTick refreshes the device-panel heart rates, appends one signal row
// per tick while a recording is active, and always re-arms the next tick.
func (a appModelAdapter) handleTick() (tea.Model, tea.Cmd) {
	if a.Snapshot != nil && a.Devices != nil {
		a.Devices.SetHeartRates(a.Snapshot.HeartRates())
	}
	if a.Tracker != nil && a.Tracker.Active() && a.Feed != nil && a.Snapshot != nil {
		a.Feed.AppendBatch(monitor.TickEntries(a.Snapshot, a.Tracker.Elapsed()))
		a.refreshMonitor()
	}
	return a, tickCmd()
}

// handleStartSession begins a recording for the configured subject and
// switches to the monitor screen.
func (a appModelAdapter) handleStartSession() (tea.Model, tea.Cmd) {
	if a.Tracker == nil {
		a.setError("No session tracker")
		return a, nil
	}
	sub := a.subject()
	sess, err := a.Tracker.Start(sub.ID)
	if err != nil {
		a.setError(fmt.Sprintf("Cannot start: %v", err))
		return a, nil
	}

	if a.Snapshot != nil {
		a.Snapshot.Reset()
	}
	if a.Feed != nil {
		a.Feed.Clear()
		ent := monitor.LifecycleEntry("started", sess.SubjectID, 0)
		a.Feed.Append(ent.Text, ent.Tone)
	}
	a.Recorder.SessionStarted(sess.ID, sess.SubjectID, sess.StartedAt)
	a.sendPacket(udp.NewLifecyclePacket(udp.EventStart, sess.ID, sess.SubjectID, sess.StartedAt))

	a.archivedSessionID = ""
	a.sessionPackets0, a.sessionBytes0 = 0, 0
	if a.Sender != nil {
		a.sessionPackets0, a.sessionBytes0 = a.Sender.Counters()
	}

	a.Mode = ModeMonitor
	a.refreshMonitor()
	a.setStatus("Recording")

	if a.Store != nil && a.Store.ArchiveEnabled() && a.SessionRepo != nil {
		a.archivedSessionID = sess.ID
		return a, insertSessionCmd(a.SessionRepo, archive.SessionRecord{
			ID:        sess.ID,
			SubjectID: sess.SubjectID,
			Group:     sub.Group,
			Label:     sub.Label,
			Notes:     sub.Notes,
			StartedAt: sess.StartedAt,
		})
	}
	return a, nil
}

// handleShowStopSession opens the stop confirmation.
func (a appModelAdapter) handleShowStopSession() (tea.Model, tea.Cmd) {
	if a.Tracker == nil || !a.Tracker.Active() {
		a.setError("No active recording")
		return a, nil
	}
	cur, _ := a.Tracker.Current()
	modal := NewStopSessionConfirmModal(cur.SubjectID, a.Tracker.Elapsed())
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleStopSession ends the recording, emits the stop lifecycle packet,
// and kicks off the archive finish and report write.
func (a appModelAdapter) handleStopSession() (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	if a.Tracker == nil {
		a.setError("No session tracker")
		return a, nil
	}
	done, err := a.Tracker.Stop()
	if err != nil {
		a.setError(fmt.Sprintf("Cannot stop: %v", err))
		return a, nil
	}

	packets, bytes := a.sessionCounters()
	if a.Feed != nil {
		ent := monitor.LifecycleEntry("stopped", done.SubjectID, done.StoppedAt.Sub(done.StartedAt))
		a.Feed.Append(ent.Text, ent.Tone)
		a.refreshMonitor()
	}
	a.Recorder.SessionStopped(packets, bytes, done.StoppedAt)
	a.sendPacket(udp.NewLifecyclePacket(udp.EventStop, done.ID, done.SubjectID, done.StoppedAt))

	sub := a.subject()
	rep := report.Build(done, sub.Group, sub.Label, sub.Notes, a.endpointLabel(), packets, bytes)

	archID := a.archivedSessionID
	a.archivedSessionID = ""
	a.setStatus("Recording stopped")
	return a, finishSessionCmd(a.SessionRepo, archID, done.StoppedAt, packets, bytes,
		a.Reports, rep, done.StartedAt)
}

// handleShowMarkerSheet opens the marker prompt.
func (a appModelAdapter) handleShowMarkerSheet() (tea.Model, tea.Cmd) {
	if a.Tracker == nil || !a.Tracker.Active() {
		a.setError("No active recording")
		return a, nil
	}
	modal := NewMarkerSheetModal()
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleSetMarker stamps a marker into the active session, the feed, the
// wire, and the archive.
func (a appModelAdapter) handleSetMarker(msg SetMarkerMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	if a.Tracker == nil || !a.Tracker.Active() {
		a.setError("No active recording")
		return a, nil
	}
	label := msg.Label
	if label == "" {
		label = "mark"
	}
	m, err := a.Tracker.Mark(label)
	if err != nil {
		a.setError(fmt.Sprintf("Cannot mark: %v", err))
		return a, nil
	}

	if a.Feed != nil {
		ent := monitor.MarkerEntry(label, m.Offset)
		a.Feed.Append(ent.Text, ent.Tone)
		a.refreshMonitor()
	}
	a.Recorder.MarkerSet(label, m.At)
	cur, _ := a.Tracker.Current()
	a.sendPacket(udp.NewMarkerPacket(cur.SubjectID, label, m.Offset, m.At))
	a.setStatus(fmt.Sprintf("Marker %q at %s", label, monitor.FormatElapsed(m.Offset)))

	if a.archivedSessionID != "" && a.MarkerRepo != nil {
		return a, insertMarkerCmd(a.MarkerRepo, archive.MarkerRecord{
			SessionID: a.archivedSessionID,
			Label:     label,
			OffsetMS:  m.Offset.Milliseconds(),
			At:        m.At,
		})
	}
	return a, nil
}

// handleClearFeed empties the signal log.
func (a appModelAdapter) handleClearFeed() (tea.Model, tea.Cmd) {
	if a.Feed != nil {
		a.Feed.Clear()
		a.refreshMonitor()
	}
	a.setStatus("Log cleared")
	return a, nil
}

// handleSessionFinished reports the outcome of the archive finish and
// report write that follow a stop.
func (a appModelAdapter) handleSessionFinished(msg SessionFinishedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err != nil:
		a.setError(fmt.Sprintf("Session close failed: %v", msg.Err))
	case msg.ReportPath != "":
		a.setStatus("Report written to " + msg.ReportPath)
	}
	if a.Mode == ModeSessions {
		return a, loadSessionsCmd(a.SessionRepo)
	}
	return a, nil
}

// handleSessionMarkersLoaded fills the sessions detail pane.
func (a appModelAdapter) handleSessionMarkersLoaded(msg SessionMarkersLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.setError(fmt.Sprintf("Cannot load markers: %v", msg.Err))
		return a, nil
	}
	a.Sessions.SetMarkers(msg.SessionID, msg.Markers)
	return a, nil
}

// handleShowDeleteSession opens the delete confirmation for an archived
// session.
func (a appModelAdapter) handleShowDeleteSession(msg ShowDeleteSessionMsg) (tea.Model, tea.Cmd) {
	modal := NewDeleteSessionConfirmModal(msg.Session)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleSessionDeleted reports the delete outcome and reloads the list.
func (a appModelAdapter) handleSessionDeleted(msg SessionDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.setError(fmt.Sprintf("Cannot delete session: %v", msg.Err))
		return a, nil
	}
	a.Sessions.Forget(msg.SessionID)
	a.setStatus("Session deleted")
	return a, loadSessionsCmd(a.SessionRepo)
}

// handleArchiveResult surfaces background archive write failures.
func (a appModelAdapter) handleArchiveResult(msg archiveResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.setError(fmt.Sprintf("Archive %s failed: %v", msg.op, msg.err))
	}
	return a, nil
}

// sendPacket transmits over UDP when the sender exists and the transmit
// toggle is on. Send failures land in the feed as alerts instead of
// interrupting the recording.
func (a *AppModel) sendPacket(p udp.Packet) {
	if a.Sender == nil || a.Store == nil || !a.Store.UDPEnabled() {
		return
	}
	if err := a.Sender.Send(p); err != nil {
		if a.Feed != nil {
			a.Feed.Append(fmt.Sprintf("udp send failed: %v", err), monitor.ToneAlert)
			a.refreshMonitor()
		}
	}
}

// sessionCounters returns packets and bytes sent since session start.
func (a *AppModel) sessionCounters() (packets, bytes uint64) {
	if a.Sender == nil {
		return 0, 0
	}
	p, b := a.Sender.Counters()
	return p - a.sessionPackets0, b - a.sessionBytes0
}

// refreshMonitor pushes the current feed into the monitor viewport.
func (a *AppModel) refreshMonitor() {
	if a.Feed != nil {
		a.Monitor.SetLines(a.Feed.Lines())
	}
}

// subject reads the configured subject, tolerating a nil store.
func (a *AppModel) subject() config.SubjectConfig {
	if a.Store == nil {
		return config.SubjectConfig{}
	}
	return a.Store.Subject()
}

// endpointLabel renders the configured endpoint as host:port.
func (a *AppModel) endpointLabel() string {
	if a.Store == nil {
		return ""
	}
	host, port := a.Store.Endpoint()
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (a *AppModel) setStatus(s string) {
	a.Status = s
	a.StatusIsError = false
}

func (a *AppModel) setError(s string) {
	a.Status = s
	a.StatusIsError = true
}
