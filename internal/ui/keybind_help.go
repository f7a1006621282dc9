package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Hint bar styling. The bubbles help model renders the key/desc pairs; the
// box wraps them with the pending sequence as a label.
var (
	hintKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)).Bold(true)
	hintDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	hintBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccent)).
			Padding(0, 1).
			MarginTop(1)
)

// RenderKeybindHelp draws the hint bar shown while a leader sequence is
// pending: the keys reachable from the buffered sequence, filtered by mode,
// plus esc to cancel.
func RenderKeybindHelp(h *KeyHandler, mode AppMode) string {
	if h == nil {
		return ""
	}
	currentSeq := strings.Join(h.Buffer, " ")
	hints := h.Registry.LeaderHints(currentSeq, mode)
	if len(hints) == 0 {
		return ""
	}

	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	bindings = append(bindings, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))

	hm := help.New()
	hm.Styles.ShortKey = hintKeyStyle
	hm.Styles.ShortDesc = hintDescStyle
	hm.Styles.ShortSeparator = hintDescStyle

	label := "SPC"
	if currentSeq != "" {
		label = currentSeq
	}
	return hintBoxStyle.Render(hintDescStyle.Render(label) + " " + hm.ShortHelpView(bindings))
}
