package ui

// AppMode identifies which screen the app is showing.
type AppMode int

const (
	// ModeMonitor is the scrolling signal log shown during a recording.
	ModeMonitor AppMode = iota
	// ModeDevices lists the sensors with connection state and battery.
	ModeDevices
	// ModeSettings is the stream/transport toggle form.
	ModeSettings
	// ModeSessions browses the archived recordings.
	ModeSessions
)

func (m AppMode) String() string {
	switch m {
	case ModeMonitor:
		return "Monitor"
	case ModeDevices:
		return "Devices"
	case ModeSettings:
		return "Settings"
	case ModeSessions:
		return "Sessions"
	default:
		return "Unknown"
	}
}
