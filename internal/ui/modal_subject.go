package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/config"
)

// Field IDs for the subject sheet's focus order.
const (
	fieldSubjectID    = "id"
	fieldSubjectGroup = "group"
	fieldSubjectLabel = "label"
	fieldSubjectNotes = "notes"
)

// SubjectSheetModal edits the subject info attached to every recording:
// participant ID, group, condition label, and free-form notes.
type SubjectSheetModal struct {
	inputs map[string]*textinput.Model
	focus  *FocusManager
	err    string
}

// Ensure SubjectSheetModal implements View.
var _ View = (*SubjectSheetModal)(nil)

// NewSubjectSheetModal creates the sheet prefilled with the current subject.
func NewSubjectSheetModal(sub config.SubjectConfig) *SubjectSheetModal {
	mk := func(placeholder, value string, width int) *textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Width = width
		ti.SetValue(value)
		return &ti
	}
	m := &SubjectSheetModal{
		inputs: map[string]*textinput.Model{
			fieldSubjectID:    mk("sub001", sub.ID, 24),
			fieldSubjectGroup: mk("control", sub.Group, 24),
			fieldSubjectLabel: mk("baseline study", sub.Label, 32),
			fieldSubjectNotes: mk("", sub.Notes, 40),
		},
		focus: &FocusManager{
			Current: fieldSubjectID,
			Order:   []string{fieldSubjectID, fieldSubjectGroup, fieldSubjectLabel, fieldSubjectNotes},
		},
	}
	m.syncFocus()
	return m
}

// syncFocus focuses the input the manager points at and blurs the rest.
func (m *SubjectSheetModal) syncFocus() {
	for id, in := range m.inputs {
		if id == m.focus.Current {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// Init implements View.
func (m *SubjectSheetModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *SubjectSheetModal) Update(msg tea.Msg) (View, tea.Cmd) {
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
			sub := m.subject()
			if sub.ID == "" {
				m.err = "subject ID is required"
				m.focus.SetFocus(fieldSubjectID)
				m.syncFocus()
				return m, nil
			}
			return m, func() tea.Msg { return SubjectSavedMsg{Subject: sub} }
		}
	}
	in := m.inputs[m.focus.Current]
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m *SubjectSheetModal) subject() config.SubjectConfig {
	return config.SubjectConfig{
		ID:    strings.TrimSpace(m.inputs[fieldSubjectID].Value()),
		Group: strings.TrimSpace(m.inputs[fieldSubjectGroup].Value()),
		Label: strings.TrimSpace(m.inputs[fieldSubjectLabel].Value()),
		Notes: strings.TrimSpace(m.inputs[fieldSubjectNotes].Value()),
	}
}

// View implements View.
func (m *SubjectSheetModal) View() string {
	content := Styles.Title.Render("Subject info") + "\n\n"
	content += m.field("Subject ID", fieldSubjectID)
	content += m.field("Group", fieldSubjectGroup)
	content += m.field("Label", fieldSubjectLabel)
	content += m.field("Notes", fieldSubjectNotes)
	if m.err != "" {
		content += Styles.Danger.Render(m.err) + "\n"
	}
	content += "\n" + Styles.Hint.Render("Tab: next field  Enter: save  Esc: cancel")
	return Styles.Box.Render(content)
}

func (m *SubjectSheetModal) field(label, id string) string {
	marker := "  "
	if m.focus.Current == id {
		marker = Styles.Selected.Render("▸ ")
	}
	return marker + Styles.Label.Render(label) + "\n  " + m.inputs[id].View() + "\n"
}
