package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/device"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
)

// handleDeviceEvent logs a state change, refreshes the device list, and
// re-arms the event pump.
func (a appModelAdapter) handleDeviceEvent(msg DeviceEventMsg) (tea.Model, tea.Cmd) {
	ev := msg.Event

	if a.Feed != nil {
		var elapsed time.Duration
		if a.Tracker != nil && a.Tracker.Active() {
			elapsed = a.Tracker.Elapsed()
		}
		ent := monitor.DeviceEntry(ev.DeviceID, deviceEventLabel(ev), elapsed, deviceEventAlert(ev))
		a.Feed.Append(ent.Text, ent.Tone)
		a.refreshMonitor()
	}

	var cmds []tea.Cmd
	if a.Manager != nil {
		a.Devices.SetStatuses(a.Manager.Devices())
		cmds = append(cmds, waitDeviceEventCmd(a.Manager.Events()))
	}
	cmds = append(cmds, a.Devices.spinCmd())
	return a, tea.Batch(cmds...)
}

// deviceEventLabel names a state change for the feed.
func deviceEventLabel(ev device.Event) string {
	if ev.Err != nil {
		return fmt.Sprintf("%s (%v)", ev.State, ev.Err)
	}
	return ev.State.String()
}

// deviceEventAlert reports whether a state change warrants alert tone.
func deviceEventAlert(ev device.Event) bool {
	return ev.Err != nil || ev.State == device.StateReconnecting
}

// handleConnectDevice starts the connect handshake for one device.
func (a appModelAdapter) handleConnectDevice(msg ConnectDeviceMsg) (tea.Model, tea.Cmd) {
	if a.Manager == nil {
		a.setError("No device manager")
		return a, nil
	}
	if err := a.Manager.Connect(msg.ID); err != nil {
		a.setError(fmt.Sprintf("Cannot connect %s: %v", msg.ID, err))
		return a, nil
	}
	a.setStatus("Connecting " + msg.ID)
	a.Devices.SetStatuses(a.Manager.Devices())
	return a, a.Devices.spinCmd()
}

// handleDisconnectDevice performs an orderly disconnect.
func (a appModelAdapter) handleDisconnectDevice(msg DisconnectDeviceMsg) (tea.Model, tea.Cmd) {
	if a.Manager == nil {
		a.setError("No device manager")
		return a, nil
	}
	if err := a.Manager.Disconnect(msg.ID); err != nil {
		a.setError(fmt.Sprintf("Cannot disconnect %s: %v", msg.ID, err))
		return a, nil
	}
	a.setStatus("Disconnected " + msg.ID)
	a.Devices.SetStatuses(a.Manager.Devices())
	return a, nil
}

// handleDropLink simulates a link loss so operators can rehearse the
// reconnect flow.
func (a appModelAdapter) handleDropLink(msg DropLinkMsg) (tea.Model, tea.Cmd) {
	if a.Manager == nil {
		a.setError("No device manager")
		return a, nil
	}
	if err := a.Manager.DropLink(msg.ID); err != nil {
		a.setError(fmt.Sprintf("Cannot drop link %s: %v", msg.ID, err))
		return a, nil
	}
	a.setStatus("Link dropped on " + msg.ID)
	a.Devices.SetStatuses(a.Manager.Devices())
	return a, a.Devices.spinCmd()
}
