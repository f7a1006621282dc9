package ui

import (
	"net"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/archive"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/device"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/report"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/session"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/store"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/telemetry"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/udp"
)

// Deps carries the backends the app drives. Nil entries disable the
// feature they power rather than crashing the UI; the device manager,
// archive repos, recorder, and mirror channel are all optional.
type Deps struct {
	Store        *store.Store
	Tracker      *session.Tracker
	Feed         *monitor.Feed
	Snapshot     *signal.Snapshot
	Manager      *device.Manager
	Sender       *udp.Sender
	SessionRepo  *archive.SessionRepo
	MarkerRepo   *archive.MarkerRepo
	Recorder     *telemetry.Recorder
	Reports      *report.Writer
	MirrorStates <-chan MirrorState
}

// AppModel is the top-level application state: the four screens, the
// overlay stack, the keybind handler, and the recording lifecycle.
type AppModel struct {
	Mode AppMode

	Monitor  *MonitorView
	Devices  *DevicesView
	Settings *SettingsView
	Sessions *SessionsView

	KeyHandler *KeyHandler
	Overlays   OverlayStack

	Store        *store.Store
	Tracker      *session.Tracker
	Feed         *monitor.Feed
	Snapshot     *signal.Snapshot
	Manager      *device.Manager
	Sender       *udp.Sender
	SessionRepo  *archive.SessionRepo
	MarkerRepo   *archive.MarkerRepo
	Recorder     *telemetry.Recorder
	Reports      *report.Writer
	MirrorStates <-chan MirrorState

	// Status is the transient message shown in the status bar. Cleared
	// on the next consumed keybind.
	Status        string
	StatusIsError bool

	width  int
	height int

	// archivedSessionID pins the archive row for the active session, so
	// the finish update targets it even if the archive toggle flips
	// mid-session.
	archivedSessionID string

	// Sender counter values at session start. Per-session packet and
	// byte counts are deltas against these.
	sessionPackets0 uint64
	sessionBytes0   uint64

	mirrorUp bool
}

// appModelAdapter wraps AppModel to satisfy tea.Model with value
// semantics while all state lives behind the shared pointer.
type appModelAdapter struct {
	*AppModel
}

// Ensure the adapter satisfies tea.Model.
var _ tea.Model = appModelAdapter{}

// NewAppModel assembles the application around its dependencies and
// registers the global keybinds.
func NewAppModel(deps Deps) *AppModel {
	var profiles []device.Profile
	if deps.Manager != nil {
		profiles = deps.Manager.Profiles()
	}

	a := &AppModel{
		Mode:         ModeMonitor,
		Monitor:      NewMonitorView(),
		Devices:      NewDevicesView(profiles),
		Settings:     NewSettingsView(deps.Store),
		Sessions:     NewSessionsView(),
		Store:        deps.Store,
		Tracker:      deps.Tracker,
		Feed:         deps.Feed,
		Snapshot:     deps.Snapshot,
		Manager:      deps.Manager,
		Sender:       deps.Sender,
		SessionRepo:  deps.SessionRepo,
		MarkerRepo:   deps.MarkerRepo,
		Recorder:     deps.Recorder,
		Reports:      deps.Reports,
		MirrorStates: deps.MirrorStates,
	}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.Bind("ctrl+c", tea.Quit)
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")

	for _, m := range statusBarModes {
		mode := m
		reg.Bind(keyForMode(mode), func() tea.Msg { return SwitchModeMsg{Mode: mode} })
	}

	reg.BindWithDesc("SPC s s", func() tea.Msg { return StartSessionMsg{} }, "Start session")
	reg.BindWithDesc("SPC s x", func() tea.Msg { return ShowStopSessionMsg{} }, "Stop session")
	reg.BindWithDesc("SPC s m", func() tea.Msg { return ShowMarkerSheetMsg{} }, "Set marker")
	reg.BindWithDesc("SPC i", func() tea.Msg { return ShowSubjectSheetMsg{} }, "Subject info")
	reg.BindWithDesc("SPC u", func() tea.Msg { return ShowEndpointSheetMsg{} }, "UDP endpoint")
	reg.BindWithDesc("SPC v c", func() tea.Msg { return ClearFeedMsg{} }, "Clear log")
	reg.BindWithDescForMode("SPC r", func() tea.Msg { return RefreshMsg{} }, "Refresh",
		[]AppMode{ModeDevices, ModeSessions})

	a.KeyHandler = NewKeyHandler(reg)
	return a
}

// keyForMode maps a mode to its number-key shortcut.
func keyForMode(m AppMode) string {
	switch m {
	case ModeMonitor:
		return "1"
	case ModeDevices:
		return "2"
	case ModeSettings:
		return "3"
	default:
		return "4"
	}
}

// AsTeaModel exposes the model to tea.NewProgram.
func (a *AppModel) AsTeaModel() tea.Model {
	return appModelAdapter{AppModel: a}
}

// currentView returns the view for the active mode.
func (a *AppModel) currentView() View {
	switch a.Mode {
	case ModeDevices:
		return a.Devices
	case ModeSettings:
		return a.Settings
	case ModeSessions:
		return a.Sessions
	default:
		return a.Monitor
	}
}

// setView stores an updated view back into its mode slot.
func (a *AppModel) setView(v View) {
	switch a.Mode {
	case ModeDevices:
		a.Devices = v.(*DevicesView)
	case ModeSettings:
		a.Settings = v.(*SettingsView)
	case ModeSessions:
		a.Sessions = v.(*SessionsView)
	default:
		a.Monitor = v.(*MonitorView)
	}
}

// Init implements tea.Model.
func (a appModelAdapter) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), a.currentView().Init()}
	if a.Manager != nil {
		cmds = append(cmds, waitDeviceEventCmd(a.Manager.Events()))
	}
	if a.MirrorStates != nil {
		cmds = append(cmds, waitMirrorStateCmd(a.MirrorStates))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmds []tea.Cmd
		for _, v := range []View{a.Monitor, a.Devices, a.Settings, a.Sessions} {
			_, cmd := v.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tickMsg:
		return a.handleTick()

	case DeviceEventMsg:
		return a.handleDeviceEvent(msg)

	case MirrorState:
		return a.handleMirrorState(msg)

	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil

	case SwitchModeMsg:
		return a.handleSwitchMode(msg)

	case StartSessionMsg:
		return a.handleStartSession()

	case ShowStopSessionMsg:
		return a.handleShowStopSession()

	case StopSessionMsg:
		return a.handleStopSession()

	case ShowMarkerSheetMsg:
		return a.handleShowMarkerSheet()

	case SetMarkerMsg:
		return a.handleSetMarker(msg)

	case ShowSubjectSheetMsg:
		return a.handleShowSubjectSheet()

	case SubjectSavedMsg:
		return a.handleSubjectSaved(msg)

	case ShowEndpointSheetMsg:
		return a.handleShowEndpointSheet()

	case EndpointSavedMsg:
		return a.handleEndpointSaved(msg)

	case ToggleSettingMsg:
		return a.handleToggleSetting(msg)

	case ConnectDeviceMsg:
		return a.handleConnectDevice(msg)

	case DisconnectDeviceMsg:
		return a.handleDisconnectDevice(msg)

	case DropLinkMsg:
		return a.handleDropLink(msg)

	case ClearFeedMsg:
		return a.handleClearFeed()

	case RefreshMsg:
		return a.handleRefresh()

	case SessionsLoadedMsg:
		a.Sessions.SetSessions(msg.Sessions, msg.Err)
		return a, nil

	case LoadSessionMarkersMsg:
		return a, loadMarkersCmd(a.MarkerRepo, msg.SessionID)

	case SessionMarkersLoadedMsg:
		return a.handleSessionMarkersLoaded(msg)

	case ShowDeleteSessionMsg:
		return a.handleShowDeleteSession(msg)

	case DeleteSessionMsg:
		a.Overlays.Pop()
		return a, deleteSessionCmd(a.SessionRepo, msg.SessionID)

	case SessionDeletedMsg:
		return a.handleSessionDeleted(msg)

	case SessionFinishedMsg:
		return a.handleSessionFinished(msg)

	case archiveResultMsg:
		return a.handleArchiveResult(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Everything else (spinner ticks, cursor blink) goes to the top
	// overlay when one is open, otherwise to the active view.
	if a.Overlays.Len() > 0 {
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}
	updated, cmd := a.currentView().Update(msg)
	a.setView(updated)
	return a, cmd
}

// handleKey routes key input: quit always wins, then the open overlay,
// then the leader-key handler, then the active view.
func (a appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.Overlays.Pop()
			return a, nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}

	if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
		a.Status = ""
		a.StatusIsError = false
		return a, cmd
	}

	updated, cmd := a.currentView().Update(msg)
	a.setView(updated)
	return a, cmd
}

// View implements tea.Model.
func (a appModelAdapter) View() string {
	var body string
	if top, ok := a.Overlays.Peek(); ok {
		body = top.View.View()
		if a.width > 0 && a.height > 1 {
			body = lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, body)
		}
	} else {
		body = a.currentView().View()
		if a.KeyHandler.LeaderWaiting {
			body += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
		}
	}
	return body + "\n" + a.statusBar()
}

// statusBar snapshots live state into the bottom bar.
func (a *AppModel) statusBar() string {
	d := StatusBarData{
		Mode:        a.Mode,
		Status:      a.Status,
		StatusIsErr: a.StatusIsError,
		Width:       a.width,
		MirrorUp:    a.mirrorUp,
	}
	if a.Tracker != nil && a.Tracker.Active() {
		d.Recording = true
		d.Elapsed = a.Tracker.Elapsed()
		if cur, ok := a.Tracker.Current(); ok {
			d.SubjectID = cur.SubjectID
		}
	}
	if a.Store != nil {
		d.UDPEnabled = a.Store.UDPEnabled()
		d.MirrorOn = a.Store.MirrorEnabled()
		host, port := a.Store.Endpoint()
		d.Endpoint = net.JoinHostPort(host, strconv.Itoa(port))
	}
	if a.Sender != nil {
		d.Packets, d.Bytes = a.Sender.Counters()
	}
	return RenderStatusBar(d)
}
