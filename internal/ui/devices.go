package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/device"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/ui/textutil"
)

// DevicesView lists the sensors with connection state, signal strength,
// battery, and the last-known heart rate. Enter connects or disconnects the
// selected device; x simulates a link drop.
type DevicesView struct {
	Statuses []device.Status
	Selected int

	profiles   map[string]device.Profile
	heartRates map[string]int
	spinner    spinner.Model
	width      int
	height     int
}

// Ensure DevicesView implements View.
var _ View = (*DevicesView)(nil)

// NewDevicesView creates the device panel. Profiles supply the per-stream
// rates shown under each device; statuses arrive via SetStatuses.
func NewDevicesView(profiles []device.Profile) *DevicesView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))

	byID := make(map[string]device.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return &DevicesView{
		profiles: byID,
		spinner:  s,
	}
}

// Init implements View.
func (d *DevicesView) Init() tea.Cmd {
	return d.spinCmd()
}

// SetHeartRates replaces the per-device heart rates shown beside connected
// devices. The map comes from the live snapshot at tick time.
func (d *DevicesView) SetHeartRates(hr map[string]int) {
	d.heartRates = hr
}

// SetStatuses replaces the displayed device states.
func (d *DevicesView) SetStatuses(statuses []device.Status) {
	d.Statuses = statuses
	if d.Selected >= len(statuses) {
		d.Selected = 0
	}
}

// SelectedDevice returns the status under the cursor, or false when empty.
func (d *DevicesView) SelectedDevice() (device.Status, bool) {
	if d.Selected < 0 || d.Selected >= len(d.Statuses) {
		return device.Status{}, false
	}
	return d.Statuses[d.Selected], true
}

// spinCmd starts the spinner while any device is mid-handshake.
func (d *DevicesView) spinCmd() tea.Cmd {
	if d.busy() {
		return d.spinner.Tick
	}
	return nil
}

func (d *DevicesView) busy() bool {
	for _, s := range d.Statuses {
		if s.State == device.StateConnecting || s.State == device.StateReconnecting {
			return true
		}
	}
	return false
}

// Update implements View.
func (d *DevicesView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if d.busy() {
			var cmd tea.Cmd
			d.spinner, cmd = d.spinner.Update(msg)
			return d, cmd
		}
		return d, nil
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if d.Selected < len(d.Statuses)-1 {
				d.Selected++
			}
			return d, nil
		case "k", "up":
			if d.Selected > 0 {
				d.Selected--
			}
			return d, nil
		case "enter":
			st, ok := d.SelectedDevice()
			if !ok {
				return d, nil
			}
			if st.State == device.StateDisconnected {
				return d, func() tea.Msg { return ConnectDeviceMsg{ID: st.ID} }
			}
			return d, func() tea.Msg { return DisconnectDeviceMsg{ID: st.ID} }
		case "x":
			st, ok := d.SelectedDevice()
			if !ok {
				return d, nil
			}
			return d, func() tea.Msg { return DropLinkMsg{ID: st.ID} }
		}
	}
	return d, nil
}

// View implements View.
func (d *DevicesView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Devices") + "\n")
	b.WriteString(Styles.Hint.Render("Enter: connect/disconnect  x: drop link") + "\n\n")

	if len(d.Statuses) == 0 {
		b.WriteString("  " + Styles.Empty.Render("(no device profiles loaded)") + "\n")
		return b.String()
	}

	for i, st := range d.Statuses {
		cursor := "  "
		nameStyle := Styles.Normal
		if i == d.Selected {
			cursor = "▸ "
			nameStyle = Styles.Selected
		}
		line := fmt.Sprintf("%s%s %s  %s  %s",
			cursor,
			d.stateGlyph(st.State),
			nameStyle.Render(textutil.PadRight(st.Name, 20)),
			Styles.Muted.Render(st.ID),
			d.stateLabel(st.State),
		)
		if st.State != device.StateDisconnected {
			line += Styles.Muted.Render(fmt.Sprintf("  %d dBm  %d%%", st.RSSI, st.Battery))
			if hr, ok := d.heartRates[st.ID]; ok {
				line += Styles.Status.Render(fmt.Sprintf("  %d bpm", hr))
			}
		}
		b.WriteString(line + "\n")

		if p, ok := d.profiles[st.ID]; ok {
			specs := make([]string, 0, len(p.Streams))
			for _, s := range p.Streams {
				specs = append(specs, fmt.Sprintf("%s %d Hz", s.Kind, s.Hz))
			}
			b.WriteString("      " + Styles.Muted.Render(strings.Join(specs, "  ")) + "\n")
		}
	}
	return b.String()
}

func (d *DevicesView) stateGlyph(s device.State) string {
	switch s {
	case device.StateStreaming, device.StateConnected:
		return Styles.Status.Render("●")
	case device.StateConnecting, device.StateReconnecting:
		return d.spinner.View()
	default:
		return Styles.Muted.Render("○")
	}
}

func (d *DevicesView) stateLabel(s device.State) string {
	switch s {
	case device.StateStreaming:
		return Styles.Status.Render(s.String())
	case device.StateReconnecting:
		return Styles.Danger.Render(s.String())
	case device.StateConnecting:
		return Styles.Details.Render(s.String())
	default:
		return Styles.Muted.Render(s.String())
	}
}
