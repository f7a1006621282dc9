package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
)

// handleToggleSetting flips one switch in the store. The store persists
// the change and notifies subscribers; the UI only reports the result.
func (a appModelAdapter) handleToggleSetting(msg ToggleSettingMsg) (tea.Model, tea.Cmd) {
	if a.Store == nil {
		a.setError("No settings store")
		return a, nil
	}

	var err error
	var what string
	var on bool

	if kind, ok := streamKind[msg.Setting]; ok {
		err = a.Store.ToggleStream(kind)
		what = kind.Label()
		on = a.Store.StreamEnabled(kind)
	} else {
		switch msg.Setting {
		case settingUDP:
			err = a.Store.ToggleUDP()
			what = "UDP transmit"
			on = a.Store.UDPEnabled()
		case settingMirror:
			err = a.Store.ToggleMirror()
			what = "MQTT mirror"
			on = a.Store.MirrorEnabled()
		case settingArchive:
			err = a.Store.ToggleArchive()
			what = "Session archive"
			on = a.Store.ArchiveEnabled()
		default:
			return a, nil
		}
	}

	if err != nil {
		a.setError(fmt.Sprintf("Cannot save settings: %v", err))
		return a, nil
	}
	state := "off"
	if on {
		state = "on"
	}
	a.setStatus(fmt.Sprintf("%s %s", what, state))
	return a, nil
}

// handleShowSubjectSheet opens the subject editor prefilled from the store.
func (a appModelAdapter) handleShowSubjectSheet() (tea.Model, tea.Cmd) {
	modal := NewSubjectSheetModal(a.subject())
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleSubjectSaved persists the edited subject.
func (a appModelAdapter) handleSubjectSaved(msg SubjectSavedMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	if a.Store == nil {
		a.setError("No settings store")
		return a, nil
	}
	if err := a.Store.SetSubject(msg.Subject); err != nil {
		a.setError(fmt.Sprintf("Cannot save subject: %v", err))
		return a, nil
	}
	a.setStatus("Subject " + msg.Subject.ID + " saved")
	return a, nil
}

// handleShowEndpointSheet opens the endpoint editor prefilled from the store.
func (a appModelAdapter) handleShowEndpointSheet() (tea.Model, tea.Cmd) {
	var host string
	var port int
	if a.Store != nil {
		host, port = a.Store.Endpoint()
	}
	modal := NewEndpointSheetModal(host, port)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleEndpointSaved persists the edited endpoint. The sender follows
// via the store's change notification.
func (a appModelAdapter) handleEndpointSaved(msg EndpointSavedMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	if a.Store == nil {
		a.setError("No settings store")
		return a, nil
	}
	if err := a.Store.SetEndpoint(msg.Host, msg.Port); err != nil {
		a.setError(fmt.Sprintf("Cannot save endpoint: %v", err))
		return a, nil
	}
	a.setStatus(fmt.Sprintf("Endpoint set to %s:%d", msg.Host, msg.Port))
	return a, nil
}

// handleSwitchMode changes the active screen and primes its data.
func (a appModelAdapter) handleSwitchMode(msg SwitchModeMsg) (tea.Model, tea.Cmd) {
	a.Mode = msg.Mode
	switch msg.Mode {
	case ModeSessions:
		return a, loadSessionsCmd(a.SessionRepo)
	case ModeDevices:
		if a.Manager != nil {
			a.Devices.SetStatuses(a.Manager.Devices())
		}
		return a, a.Devices.spinCmd()
	case ModeMonitor:
		a.refreshMonitor()
	}
	return a, nil
}

// handleRefresh reloads whatever the active screen shows.
func (a appModelAdapter) handleRefresh() (tea.Model, tea.Cmd) {
	switch a.Mode {
	case ModeDevices:
		if a.Manager != nil {
			a.Devices.SetStatuses(a.Manager.Devices())
		}
		a.setStatus("Devices refreshed")
		return a, a.Devices.spinCmd()
	case ModeSessions:
		a.setStatus("Reloading sessions")
		return a, loadSessionsCmd(a.SessionRepo)
	default:
		a.refreshMonitor()
		return a, nil
	}
}

// handleMirrorState logs mirror connectivity changes and re-arms the pump.
func (a appModelAdapter) handleMirrorState(msg MirrorState) (tea.Model, tea.Cmd) {
	a.mirrorUp = msg.Connected

	if a.Feed != nil {
		switch {
		case msg.Err != nil:
			a.Feed.Append(fmt.Sprintf("mqtt mirror: %v", msg.Err), monitor.ToneAlert)
		case msg.Connected:
			a.Feed.Append("mqtt mirror connected", monitor.ToneMuted)
		default:
			a.Feed.Append("mqtt mirror disconnected", monitor.ToneMuted)
		}
		a.refreshMonitor()
	}

	if a.MirrorStates != nil {
		return a, waitMirrorStateCmd(a.MirrorStates)
	}
	return a, nil
}
