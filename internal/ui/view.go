package ui

import tea "github.com/charmbracelet/bubbletea"

// View is implemented by every screen and sheet: the monitor log, the
// device list, the settings form, the session browser, and the modal
// sheets stacked above them. It mirrors Bubble Tea's model shape except
// that Update returns a View, so implementations can swap themselves out.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
