package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldEndpointHost = "host"
	fieldEndpointPort = "port"
)

// EndpointSheetModal edits the UDP destination the bridge streams to.
type EndpointSheetModal struct {
	host  textinput.Model
	port  textinput.Model
	focus *FocusManager
	err   string
}

// Ensure EndpointSheetModal implements View.
var _ View = (*EndpointSheetModal)(nil)

// NewEndpointSheetModal creates the sheet prefilled with the current endpoint.
func NewEndpointSheetModal(host string, port int) *EndpointSheetModal {
	hi := textinput.New()
	hi.Placeholder = "192.168.1.10"
	hi.Width = 24
	hi.SetValue(host)

	pi := textinput.New()
	pi.Placeholder = "9000"
	pi.Width = 8
	if port > 0 {
		pi.SetValue(strconv.Itoa(port))
	}

	m := &EndpointSheetModal{
		host: hi,
		port: pi,
		focus: &FocusManager{
			Current: fieldEndpointHost,
			Order:   []string{fieldEndpointHost, fieldEndpointPort},
		},
	}
	m.syncFocus()
	return m
}

func (m *EndpointSheetModal) syncFocus() {
	if m.focus.Current == fieldEndpointHost {
		m.host.Focus()
		m.port.Blur()
	} else {
		m.host.Blur()
		m.port.Focus()
	}
}

// Init implements View.
func (m *EndpointSheetModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *EndpointSheetModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "tab", "down":
			m.focus.Next()
			m.syncFocus()
			return m, nil
		case "shift+tab", "up":
			m.focus.Prev()
			m.syncFocus()
			return m, nil
		case "enter":
			host := strings.TrimSpace(m.host.Value())
			if host == "" {
				m.err = "host is required"
				m.focus.SetFocus(fieldEndpointHost)
				m.syncFocus()
				return m, nil
			}
			port, err := strconv.Atoi(strings.TrimSpace(m.port.Value()))
			if err != nil || port < 1 || port > 65535 {
				m.err = "port must be 1-65535"
				m.focus.SetFocus(fieldEndpointPort)
				m.syncFocus()
				return m, nil
			}
			return m, func() tea.Msg { return EndpointSavedMsg{Host: host, Port: port} }
		}
	}
	var cmd tea.Cmd
	if m.focus.Current == fieldEndpointHost {
		m.host, cmd = m.host.Update(msg)
	} else {
		m.port, cmd = m.port.Update(msg)
	}
	return m, cmd
}

// View implements View.
func (m *EndpointSheetModal) View() string {
	content := Styles.Title.Render("UDP endpoint") + "\n\n"
	content += m.field("Host", m.host.View(), fieldEndpointHost)
	content += m.field("Port", m.port.View(), fieldEndpointPort)
	if m.err != "" {
		content += Styles.Danger.Render(m.err) + "\n"
	}
	content += "\n" + Styles.Hint.Render("Tab: next field  Enter: save  Esc: cancel")
	return Styles.Box.Render(content)
}

func (m *EndpointSheetModal) field(label, input, id string) string {
	marker := "  "
	if m.focus.Current == id {
		marker = Styles.Selected.Render("▸ ")
	}
	return marker + Styles.Label.Render(label) + "\n  " + input + "\n"
}
