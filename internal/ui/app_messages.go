package ui

import (
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/archive"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/config"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/device"
)

// SwitchModeMsg switches the app to another screen (keys 1-4).
type SwitchModeMsg struct {
	Mode AppMode
}

// StartSessionMsg begins a recording for the current subject.
type StartSessionMsg struct{}

// ShowStopSessionMsg triggers the stop confirmation modal (SPC s x).
type ShowStopSessionMsg struct{}

// StopSessionMsg ends the active recording, closes the archive row, and
// writes the session report.
type StopSessionMsg struct{}

// SetMarkerMsg records a named phase marker at the current offset (from the
// marker sheet).
type SetMarkerMsg struct {
	Label string
}

// ShowMarkerSheetMsg triggers the marker sheet (SPC s m).
type ShowMarkerSheetMsg struct{}

// ShowSubjectSheetMsg triggers the subject info sheet (SPC i).
type ShowSubjectSheetMsg struct{}

// ShowEndpointSheetMsg triggers the UDP endpoint sheet (SPC u).
type ShowEndpointSheetMsg struct{}

// SubjectSavedMsg is sent when the subject sheet is submitted.
type SubjectSavedMsg struct {
	Subject config.SubjectConfig
}

// EndpointSavedMsg is sent when the endpoint sheet is submitted.
type EndpointSavedMsg struct {
	Host string
	Port int
}

// ToggleSettingMsg flips one row of the settings form.
type ToggleSettingMsg struct {
	Setting settingID
}

// ConnectDeviceMsg starts the handshake for the selected device.
type ConnectDeviceMsg struct {
	ID string
}

// DisconnectDeviceMsg disconnects the selected device.
type DisconnectDeviceMsg struct {
	ID string
}

// DropLinkMsg simulates a connection loss on the selected device, exercising
// the reconnect path.
type DropLinkMsg struct {
	ID string
}

// DeviceEventMsg carries a device state change from the manager.
type DeviceEventMsg struct {
	Event device.Event
}

// MirrorState reports the MQTT mirror going up or down. Produced by the
// mirror's state callback, delivered over the channel wired into Deps.
type MirrorState struct {
	Connected bool
	Err       error
}

// ClearFeedMsg empties the monitor log (SPC v c).
type ClearFeedMsg struct{}

// RefreshMsg reloads the data behind the current screen.
type RefreshMsg struct{}

// SessionsLoadedMsg is sent when the archived session list has been read.
type SessionsLoadedMsg struct {
	Sessions []archive.SessionRecord
	Err      error
}

// LoadSessionMarkersMsg asks for the markers of one archived session (Enter
// in the sessions list).
type LoadSessionMarkersMsg struct {
	SessionID string
}

// SessionMarkersLoadedMsg delivers the markers of one archived session.
type SessionMarkersLoadedMsg struct {
	SessionID string
	Markers   []archive.MarkerRecord
	Err       error
}

// ShowDeleteSessionMsg triggers the delete confirmation for one archived
// session (x in the sessions list).
type ShowDeleteSessionMsg struct {
	Session archive.SessionRecord
}

// DeleteSessionMsg removes an archived session and its markers.
type DeleteSessionMsg struct {
	SessionID string
}

// SessionDeletedMsg reports the outcome of an archive delete.
type SessionDeletedMsg struct {
	SessionID string
	Err       error
}

// SessionFinishedMsg is sent after session stop once the archive row is
// closed and the report file is written.
type SessionFinishedMsg struct {
	ReportPath string
	Err        error
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// archiveResultMsg reports an async archive write; only surfaced on failure.
type archiveResultMsg struct {
	op  string
	err error
}

// tickMsg drives the 2-second monitor tick.
type tickMsg time.Time
