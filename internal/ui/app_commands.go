package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/archive"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/device"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/report"
)

// archiveTimeout bounds every archive query issued from the UI.
const archiveTimeout = 5 * time.Second

// tickCmd schedules the next monitor tick. The handler re-arms it, so
// exactly one tick is in flight at any time.
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitDeviceEventCmd blocks on the manager's event channel and delivers
// the next state change. Returns nil once the channel closes, which
// stops the pump.
func waitDeviceEventCmd(events <-chan device.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return DeviceEventMsg{Event: ev}
	}
}

// waitMirrorStateCmd blocks on the mirror state channel.
func waitMirrorStateCmd(states <-chan MirrorState) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return nil
		}
		return st
	}
}

// loadSessionsCmd reads the most recent archived sessions.
func loadSessionsCmd(repo *archive.SessionRepo) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return SessionsLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		sessions, err := repo.List(ctx, 50)
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

// loadMarkersCmd reads the markers of one archived session.
func loadMarkersCmd(repo *archive.MarkerRepo, sessionID string) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return SessionMarkersLoadedMsg{SessionID: sessionID}
		}
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		markers, err := repo.ListBySession(ctx, sessionID)
		return SessionMarkersLoadedMsg{SessionID: sessionID, Markers: markers, Err: err}
	}
}

// deleteSessionCmd removes one archived session and its markers.
func deleteSessionCmd(repo *archive.SessionRepo, sessionID string) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return SessionDeletedMsg{SessionID: sessionID}
		}
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		return SessionDeletedMsg{SessionID: sessionID, Err: repo.Delete(ctx, sessionID)}
	}
}

// insertSessionCmd writes the session row at recording start.
func insertSessionCmd(repo *archive.SessionRepo, rec archive.SessionRecord) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		return archiveResultMsg{op: "insert session", err: repo.Insert(ctx, rec)}
	}
}

// insertMarkerCmd writes one marker row during a recording.
func insertMarkerCmd(repo *archive.MarkerRepo, rec archive.MarkerRecord) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		return archiveResultMsg{op: "insert marker", err: repo.Insert(ctx, rec)}
	}
}

// finishSessionCmd closes out a stopped recording: it stamps the archive
// row with the stop time and transport counters, then writes the JSON
// session report. Either half may be disabled; the other still runs.
func finishSessionCmd(
	repo *archive.SessionRepo,
	sessionID string,
	stoppedAt time.Time,
	packets, bytes uint64,
	reports *report.Writer,
	rep report.Report,
	startedAt time.Time,
) tea.Cmd {
	return func() tea.Msg {
		var msg SessionFinishedMsg
		if repo != nil && sessionID != "" {
			ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
			defer cancel()
			if err := repo.Finish(ctx, sessionID, stoppedAt, packets, bytes); err != nil {
				msg.Err = err
			}
		}
		if reports != nil {
			path, err := reports.Write(rep, startedAt)
			if err != nil && msg.Err == nil {
				msg.Err = err
			}
			msg.ReportPath = path
		}
		return msg
	}
}
