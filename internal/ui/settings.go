package ui

import (
	"fmt"
	"net"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/store"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/ui/textutil"
)

// settingID identifies one row of the settings form.
type settingID int

const (
	settingECG settingID = iota
	settingPPG
	settingRR
	settingPPI
	settingHR
	settingUDP
	settingMirror
	settingArchive
	settingEndpoint
	settingSubject
)

// settingRow is one navigable line of the form. Toggle rows flip a store
// value; sheet rows open the matching modal.
type settingRow struct {
	id      settingID
	label   string
	section string // printed above the first row of each section
	sheet   bool
}

var settingRows = []settingRow{
	{id: settingECG, label: "ECG", section: "Streams"},
	{id: settingPPG, label: "PPG"},
	{id: settingRR, label: "RR"},
	{id: settingPPI, label: "PPI"},
	{id: settingHR, label: "HR"},
	{id: settingUDP, label: "UDP transmit", section: "Transport"},
	{id: settingMirror, label: "MQTT mirror"},
	{id: settingArchive, label: "Session archive"},
	{id: settingEndpoint, label: "Endpoint", section: "Sheets", sheet: true},
	{id: settingSubject, label: "Subject", sheet: true},
}

// streamKind maps toggle rows to their signal kind.
var streamKind = map[settingID]signal.Kind{
	settingECG: signal.KindECG,
	settingPPG: signal.KindPPG,
	settingRR:  signal.KindRR,
	settingPPI: signal.KindPPI,
	settingHR:  signal.KindHR,
}

// SettingsView is the stream/transport toggle form. It reads live values from
// the store on render, so external changes show up without plumbing.
type SettingsView struct {
	Selected int

	store  *store.Store
	width  int
	height int
}

// Ensure SettingsView implements View.
var _ View = (*SettingsView)(nil)

// NewSettingsView creates the settings form over the given store.
func NewSettingsView(st *store.Store) *SettingsView {
	return &SettingsView{store: st}
}

// Init implements View.
func (v *SettingsView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *SettingsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if v.Selected < len(settingRows)-1 {
				v.Selected++
			}
			return v, nil
		case "k", "up":
			if v.Selected > 0 {
				v.Selected--
			}
			return v, nil
		case "g":
			v.Selected = 0
			return v, nil
		case "G":
			v.Selected = len(settingRows) - 1
			return v, nil
		case "enter":
			row := settingRows[v.Selected]
			if row.sheet {
				switch row.id {
				case settingEndpoint:
					return v, func() tea.Msg { return ShowEndpointSheetMsg{} }
				case settingSubject:
					return v, func() tea.Msg { return ShowSubjectSheetMsg{} }
				}
				return v, nil
			}
			id := row.id
			return v, func() tea.Msg { return ToggleSettingMsg{Setting: id} }
		}
	}
	return v, nil
}

// View implements View.
func (v *SettingsView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Settings") + "\n")
	b.WriteString(Styles.Hint.Render("Enter: toggle or open sheet") + "\n")

	for i, row := range settingRows {
		if row.section != "" {
			b.WriteString("\n" + Styles.Section.Render(row.section) + "\n")
		}
		cursor := "  "
		style := Styles.Normal
		if i == v.Selected {
			cursor = "▸ "
			style = Styles.Selected
		}
		if row.sheet {
			b.WriteString(fmt.Sprintf("%s%s  %s\n",
				cursor,
				style.Render(textutil.PadRight(row.label+"…", 16)),
				Styles.Muted.Render(v.sheetSummary(row.id))))
			continue
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n",
			cursor,
			v.checkbox(row.id),
			style.Render(textutil.PadRight(row.label, 16)),
			Styles.Muted.Render(v.rowDetail(row.id))))
	}
	return b.String()
}

func (v *SettingsView) checkbox(id settingID) string {
	if v.enabled(id) {
		return Styles.Status.Render("[x]")
	}
	return Styles.Muted.Render("[ ]")
}

func (v *SettingsView) enabled(id settingID) bool {
	if v.store == nil {
		return false
	}
	if k, ok := streamKind[id]; ok {
		return v.store.StreamEnabled(k)
	}
	switch id {
	case settingUDP:
		return v.store.UDPEnabled()
	case settingMirror:
		return v.store.MirrorEnabled()
	case settingArchive:
		return v.store.ArchiveEnabled()
	}
	return false
}

// rowDetail renders the secondary column: stream units, broker, archive path.
func (v *SettingsView) rowDetail(id settingID) string {
	if k, ok := streamKind[id]; ok {
		if unit := k.Unit(); unit != "" {
			return unit
		}
		return ""
	}
	if v.store == nil {
		return ""
	}
	cfg := v.store.Config()
	switch id {
	case settingUDP:
		host, port := v.store.Endpoint()
		return net.JoinHostPort(host, fmt.Sprintf("%d", port))
	case settingMirror:
		return fmt.Sprintf("tcp://%s:%d/%s", cfg.Mirror.Broker, cfg.Mirror.Port, cfg.Mirror.TopicRoot)
	case settingArchive:
		return cfg.Archive.Path
	}
	return ""
}

func (v *SettingsView) sheetSummary(id settingID) string {
	if v.store == nil {
		return ""
	}
	switch id {
	case settingEndpoint:
		host, port := v.store.Endpoint()
		return net.JoinHostPort(host, fmt.Sprintf("%d", port))
	case settingSubject:
		sub := v.store.Subject()
		if sub.ID == "" {
			return "(not set)"
		}
		s := sub.ID
		if sub.Group != "" {
			s += "  group " + sub.Group
		}
		return s
	}
	return ""
}
