package ui

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// markerPresets are the labels operators reach for most. Typing close to
// one of them offers tab-completion.
var markerPresets = []string{"baseline", "stimulus", "recovery", "rest", "task-start", "task-end"}

// MarkerSheetModal prompts for a marker label during a recording.
type MarkerSheetModal struct {
	input      textinput.Model
	suggestion string
}

// Ensure MarkerSheetModal implements View.
var _ View = (*MarkerSheetModal)(nil)

// NewMarkerSheetModal creates the marker prompt.
func NewMarkerSheetModal() *MarkerSheetModal {
	ti := textinput.New()
	ti.Placeholder = "baseline"
	ti.Width = 32
	ti.Focus()
	return &MarkerSheetModal{input: ti}
}

// Init implements View.
func (m *MarkerSheetModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *MarkerSheetModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "tab":
			if m.suggestion != "" {
				m.input.SetValue(m.suggestion)
				m.input.CursorEnd()
				m.suggestion = ""
			}
			return m, nil
		case "enter":
			label := strings.TrimSpace(m.input.Value())
			return m, func() tea.Msg { return SetMarkerMsg{Label: label} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggestion = suggestPreset(m.input.Value())
	return m, cmd
}

// suggestPreset returns the preset closest to the typed value, or "" when
// nothing is close enough. Prefix matches win over edit distance.
func suggestPreset(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	for _, p := range markerPresets {
		if p == value {
			return ""
		}
	}
	for _, p := range markerPresets {
		if strings.HasPrefix(p, value) {
			return p
		}
	}
	best, bestDist := "", 3
	for _, p := range markerPresets {
		if d := levenshtein.ComputeDistance(value, p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// View implements View.
func (m *MarkerSheetModal) View() string {
	content := Styles.Title.Render("Set marker") + "\n\n"
	content += m.input.View() + "\n"
	if m.suggestion != "" {
		content += Styles.Hint.Render("↹ "+m.suggestion) + "\n"
	}
	content += Styles.Muted.Render("presets: "+strings.Join(markerPresets, "  ")) + "\n"
	content += "\n" + Styles.Hint.Render("Enter: mark  Tab: complete  Esc: cancel")
	return Styles.Box.Render(content)
}
