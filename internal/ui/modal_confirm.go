package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/archive"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
)

// ConfirmModal is a generic confirmation modal.
// Enter or y confirms; Esc cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string
	OnConfirm func() tea.Msg
}

// Ensure ConfirmModal implements View.
var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a generic confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:     title,
		Label:     label,
		OnConfirm: onConfirm,
	}
}

// WithDetails adds warning details to the modal.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewStopSessionConfirmModal asks before ending the active recording.
func NewStopSessionConfirmModal(subjectID string, elapsed time.Duration) *ConfirmModal {
	if subjectID == "" {
		subjectID = "anon"
	}
	return NewConfirmModal(
		"Stop recording?",
		fmt.Sprintf("Subject %s, %s elapsed", subjectID, monitor.FormatElapsed(elapsed)),
		func() tea.Msg { return StopSessionMsg{} },
	).WithDetails("The session report is written on stop")
}

// NewDeleteSessionConfirmModal asks before removing an archived session.
func NewDeleteSessionConfirmModal(rec archive.SessionRecord) *ConfirmModal {
	subject := rec.SubjectID
	if subject == "" {
		subject = "anon"
	}
	return NewConfirmModal(
		"Delete archived session?",
		fmt.Sprintf("Subject %s, started %s", subject, rec.StartedAt.Local().Format("2006-01-02 15:04")),
		func() tea.Msg { return DeleteSessionMsg{SessionID: rec.ID} },
	).WithDetails("Its markers are removed with it")
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.TitleWarning.Render(m.Title) + "\n\n"
	content += Styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Details.Render(m.Details)
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return Styles.BoxDanger.Render(content)
}
