// Package textutil measures and fits text for terminal rendering. All
// widths are visual columns, not bytes or runes.
package textutil

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ellipsis trails truncated text.
const ellipsis = "…"

// VisualWidth returns the number of terminal columns a plain string occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// VisualWidthStyled returns the column width of a string that may carry ANSI
// styling.
func VisualWidthStyled(s string) int {
	return lipgloss.Width(s)
}

// Truncate fits a plain string into maxWidth columns, ending with an
// ellipsis when it had to cut. Styled strings must be truncated before
// styling; the escape codes would be sliced otherwise.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// PadRight pads s with spaces to targetWidth columns, truncating when it is
// already wider. Unlike fmt's %-Ns it counts columns, so wide runes line up.
func PadRight(s string, targetWidth int) string {
	if runewidth.StringWidth(s) > targetWidth {
		return Truncate(s, targetWidth)
	}
	return runewidth.FillRight(s, targetWidth)
}
