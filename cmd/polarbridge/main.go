package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/archive"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/config"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/device"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/mirror"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/monitor"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/report"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/session"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/store"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/telemetry"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/udp"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "polarbridge: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st := store.New(cfg, config.Save)

	profiles := device.BuiltinProfiles()
	if cfg.Devices.ProfilePath != "" {
		profiles, err = device.LoadProfiles(cfg.Devices.ProfilePath)
		if err != nil {
			return fmt.Errorf("load device profiles: %w", err)
		}
	}
	manager := device.NewManager(profiles, st.StreamEnabled)
	defer manager.Stop()

	sender := udp.NewSender(cfg.Network.Host, cfg.Network.Port)
	if err := sender.Dial(); err != nil {
		return fmt.Errorf("dial udp endpoint: %w", err)
	}
	defer sender.Close()

	var sessionRepo *archive.SessionRepo
	var markerRepo *archive.MarkerRepo
	if cfg.Archive.Path != "" {
		db, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()
		if err := archive.Migrate(db); err != nil {
			return fmt.Errorf("migrate archive: %w", err)
		}
		sessionRepo = archive.NewSessionRepo(db)
		markerRepo = archive.NewMarkerRepo(db)
	}

	ctx := context.Background()
	recorder, err := telemetry.NewRecorder(ctx)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer recorder.Shutdown(ctx)

	reports, err := report.NewWriter()
	if err != nil {
		return fmt.Errorf("init report writer: %w", err)
	}

	// The mirror's state callback feeds the UI over this channel; drops
	// are fine, the status bar shows current state on the next change.
	mirrorStates := make(chan ui.MirrorState, 8)
	notify := func(connected bool, err error) {
		select {
		case mirrorStates <- ui.MirrorState{Connected: connected, Err: err}:
		default:
		}
	}
	mir := mirror.New(cfg.Mirror.Broker, cfg.Mirror.Port, cfg.Mirror.TopicRoot, notify)

	snapshot := signal.NewSnapshot()

	pmp := newPump(st, manager, sender, snapshot, mir, notify)
	pmp.start()
	defer pmp.stop()

	app := ui.NewAppModel(ui.Deps{
		Store:        st,
		Tracker:      session.New(nil),
		Feed:         monitor.NewFeed(),
		Snapshot:     snapshot,
		Manager:      manager,
		Sender:       sender,
		SessionRepo:  sessionRepo,
		MarkerRepo:   markerRepo,
		Recorder:     recorder,
		Reports:      reports,
		MirrorStates: mirrorStates,
	})

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
