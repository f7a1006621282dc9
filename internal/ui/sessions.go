package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/archive"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
)

// sessionItem implements list.Item for an archived session.
type sessionItem struct {
	archive.SessionRecord
}

func (s sessionItem) FilterValue() string { return s.SubjectID }
func (s sessionItem) Description() string { return "" }

func (s sessionItem) Title() string {
	subject := s.SubjectID
	if subject == "" {
		subject = "anon"
	}
	dur := "running"
	if s.StoppedAt != nil {
		dur = monitor.FormatElapsed(s.StoppedAt.Sub(s.StartedAt))
	}
	return fmt.Sprintf("%-12s %s  %s  %s pkts  %s",
		subject,
		s.StartedAt.Local().Format("2006-01-02 15:04"),
		dur,
		humanize.Comma(s.Packets),
		humanize.Bytes(uint64(s.Bytes)),
	)
}

// SessionsView browses the archived recordings, newest first.
// Enter loads the selected session's markers into the detail pane; x asks
// to delete the selected session.
type SessionsView struct {
	list    list.Model
	records []archive.SessionRecord
	markers map[string][]archive.MarkerRecord
	loading bool
	err     error
	width   int
	height  int
}

// Ensure SessionsView implements View.
var _ View = (*SessionsView)(nil)

// NewSessionsView creates an empty session browser. Records arrive via
// SessionsLoadedMsg once the archive has been read.
func NewSessionsView() *SessionsView {
	delegate := NewCompactListDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.SetShowStatusBar(false)
	// Filtering would fight the global keybinds for typed characters.
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title
	return &SessionsView{
		list:    l,
		markers: make(map[string][]archive.MarkerRecord),
		loading: true,
	}
}

// Init implements View.
func (v *SessionsView) Init() tea.Cmd {
	return nil
}

// SetSessions replaces the displayed records.
func (v *SessionsView) SetSessions(records []archive.SessionRecord, err error) {
	v.loading = false
	v.err = err
	v.records = records
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = sessionItem{SessionRecord: r}
	}
	v.list.SetItems(items)
}

// SetMarkers attaches loaded markers to their session for the detail pane.
func (v *SessionsView) SetMarkers(sessionID string, markers []archive.MarkerRecord) {
	v.markers[sessionID] = markers
}

// Forget drops the cached markers of a deleted session.
func (v *SessionsView) Forget(sessionID string) {
	delete(v.markers, sessionID)
}

// SelectedSession returns the record under the cursor.
func (v *SessionsView) SelectedSession() (archive.SessionRecord, bool) {
	item, ok := v.list.SelectedItem().(sessionItem)
	if !ok {
		return archive.SessionRecord{}, false
	}
	return item.SessionRecord, true
}

// Update implements View.
func (v *SessionsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.list.SetWidth(msg.Width)
		v.list.SetHeight(msg.Height/2 - 2)
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if rec, ok := v.SelectedSession(); ok {
				id := rec.ID
				return v, func() tea.Msg { return LoadSessionMarkersMsg{SessionID: id} }
			}
			return v, nil
		case "x":
			if rec, ok := v.SelectedSession(); ok {
				r := rec
				return v, func() tea.Msg { return ShowDeleteSessionMsg{Session: r} }
			}
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View implements View.
func (v *SessionsView) View() string {
	if v.list.Width() == 0 {
		v.list.SetWidth(80)
	}
	if v.list.Height() == 0 {
		v.list.SetHeight(12)
	}

	var b strings.Builder
	switch {
	case v.err != nil:
		b.WriteString(Styles.Danger.Render(fmt.Sprintf("Archive unavailable: %v", v.err)) + "\n")
	case v.loading:
		b.WriteString(Styles.Muted.Render("Loading sessions…") + "\n")
	case len(v.records) == 0:
		b.WriteString(Styles.Title.Render("Sessions") + "\n\n")
		b.WriteString("  " + Styles.Empty.Render("(no archived sessions)") + "\n")
		return b.String()
	}
	b.WriteString(v.list.View())
	b.WriteString("\n" + v.detail())
	return b.String()
}

// detail renders the selected session's markers, once loaded.
func (v *SessionsView) detail() string {
	rec, ok := v.SelectedSession()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(Styles.Section.Render("Markers") + "\n")
	markers, loaded := v.markers[rec.ID]
	if !loaded {
		b.WriteString("  " + Styles.Hint.Render("Enter: load markers  x: delete") + "\n")
		return b.String()
	}
	if len(markers) == 0 {
		b.WriteString("  " + Styles.Empty.Render("(none)") + "\n")
		return b.String()
	}
	for _, m := range markers {
		offset := monitor.FormatElapsed(time.Duration(m.OffsetMS) * time.Millisecond)
		b.WriteString(fmt.Sprintf("  %s ◆ %s\n", Styles.Muted.Render(offset), Styles.Normal.Render(m.Label)))
	}
	return b.String()
}
