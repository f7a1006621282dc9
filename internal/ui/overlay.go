package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a sheet or confirmation floating above the active screen.
type Overlay struct {
	View    View
	Dismiss string // key that closes it without a result, usually "esc"
}

// IsDismissKey reports whether key closes this overlay.
func (o Overlay) IsDismissKey(key string) bool {
	return o.Dismiss != "" && key == o.Dismiss
}

// OverlayStack holds the open overlays. The top one gets all input; the
// screens underneath keep rendering but stay inert until it closes.
type OverlayStack struct {
	Stack []Overlay
}

// Push opens an overlay on top of the stack.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop closes and returns the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without closing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of open overlays.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// UpdateTop routes msg to the top overlay and stores the view it returns.
// The caller runs the returned cmd. The bool is false on an empty stack.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	updated, cmd := top.View.Update(msg)
	top.View = updated
	return cmd, true
}
