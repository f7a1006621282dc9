package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
)

// MonitorView displays the scrolling signal log in a viewport. It follows the
// live tail until the operator scrolls up; G resumes following.
type MonitorView struct {
	viewport viewport.Model
	follow   bool
	count    int
	width    int
	height   int
}

// Ensure MonitorView implements View.
var _ View = (*MonitorView)(nil)

// NewMonitorView creates an empty monitor log.
func NewMonitorView() *MonitorView {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1)
	return &MonitorView{
		viewport: vp,
		follow:   true,
		width:    80,
		height:   20,
	}
}

// Init implements View.
func (m *MonitorView) Init() tea.Cmd {
	return nil
}

// SetLines replaces the viewport content with the current feed.
// While following, the viewport stays pinned to the newest line.
func (m *MonitorView) SetLines(lines []monitor.Line) {
	m.count = len(lines)
	if len(lines) == 0 {
		m.viewport.SetContent(Styles.Empty.Render("No signal yet. SPC s s starts a recording."))
		return
	}
	var b strings.Builder
	for i, ln := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(toneStyle(ln.Tone).Render(ln.Text))
	}
	m.viewport.SetContent(b.String())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// Update implements View.
func (m *MonitorView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.follow = false
			m.viewport.LineDown(1)
			return m, nil
		case "k", "up":
			m.follow = false
			m.viewport.LineUp(1)
			return m, nil
		case "ctrl+d", "pgdown":
			m.follow = false
			m.viewport.PageDown()
			return m, nil
		case "ctrl+u", "pgup":
			m.follow = false
			m.viewport.PageUp()
			return m, nil
		case "g", "home":
			m.follow = false
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.follow = true
			m.viewport.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements View.
func (m *MonitorView) View() string {
	header := Styles.Title.Render("Signal log")
	if !m.follow {
		header += "  " + Styles.Muted.Render("scrolled (G to follow)")
	}
	return header + "\n" + m.viewport.View()
}

// Following reports whether the viewport is pinned to the live tail.
func (m *MonitorView) Following() bool {
	return m.follow
}

// SetSize resizes the viewport, reserving rows for header and status bar.
func (m *MonitorView) SetSize(width, height int) {
	m.width = width
	m.height = height
	w := width - 2
	h := height - 4
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// toneStyle maps a feed line tone to its display style.
func toneStyle(t monitor.Tone) lipgloss.Style {
	switch t {
	case monitor.ToneLifecycle:
		return Styles.Status
	case monitor.ToneMarker:
		return Styles.Selected
	case monitor.ToneAlert:
		return Styles.Danger
	case monitor.ToneMuted:
		return Styles.Muted
	default:
		return Styles.Normal
	}
}
