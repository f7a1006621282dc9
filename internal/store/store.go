// Package store holds the bridge's mutable application state: subject info,
// stream/transport settings, and the UDP endpoint. Mutations persist through
// the config layer and fan out to subscribers over buffered channels.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/config"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

// EventKind identifies what part of the store changed.
type EventKind int

const (
	EventSubject EventKind = iota
	EventSettings
	EventEndpoint
)

// Event is published to subscribers after a mutation has been persisted.
type Event struct {
	Kind EventKind
}

var (
	// ErrSubjectID is returned when the subject sheet is saved without an ID.
	ErrSubjectID = errors.New("subject id must not be empty")
	// ErrEndpointHost is returned for an empty endpoint host.
	ErrEndpointHost = errors.New("endpoint host must not be empty")
)

// Saver persists a config snapshot. Production wires config.Save; tests
// inject a recorder.
type Saver func(config.Config) error

// Store is the single source of truth the views bind to.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	cfg  config.Config
	save Saver
	subs []chan Event
}

// New creates a store over the loaded config. A nil saver disables
// persistence (useful in tests).
func New(cfg config.Config, save Saver) *Store {
	return &Store{cfg: cfg, save: save}
}

// Subscribe registers a listener. Events are delivered non-blocking: a
// subscriber that falls behind misses events rather than stalling mutations.
func (s *Store) Subscribe() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, 8)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) publishLocked(kind EventKind) {
	for _, ch := range s.subs {
		select {
		case ch <- Event{Kind: kind}:
		default:
			// Subscriber full; drop rather than block the mutation path.
		}
	}
}

// persistLocked saves the current config if a saver is wired.
func (s *Store) persistLocked() error {
	if s.save == nil {
		return nil
	}
	if err := s.save(s.cfg); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

// Subject returns the current subject sheet values.
func (s *Store) Subject() config.SubjectConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Subject
}

// SetSubject validates, persists, and publishes the subject sheet.
func (s *Store) SetSubject(sub config.SubjectConfig) error {
	if sub.ID == "" {
		return ErrSubjectID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cfg.Subject
	s.cfg.Subject = sub
	if err := s.persistLocked(); err != nil {
		s.cfg.Subject = prev
		return err
	}
	s.publishLocked(EventSubject)
	return nil
}

// Endpoint returns the UDP destination.
func (s *Store) Endpoint() (host string, port int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Network.Host, s.cfg.Network.Port
}

// SetEndpoint validates, persists, and publishes a new UDP destination.
// The sender re-dials on the resulting EventEndpoint.
func (s *Store) SetEndpoint(host string, port int) error {
	if host == "" {
		return ErrEndpointHost
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("endpoint port %d out of range 1..65535", port)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prevHost, prevPort := s.cfg.Network.Host, s.cfg.Network.Port
	s.cfg.Network.Host, s.cfg.Network.Port = host, port
	if err := s.persistLocked(); err != nil {
		s.cfg.Network.Host, s.cfg.Network.Port = prevHost, prevPort
		return err
	}
	s.publishLocked(EventEndpoint)
	return nil
}

// StreamEnabled reports whether samples of the given kind should be
// generated and transmitted. Kinds outside the settings form (ACC/GYR)
// default to off.
func (s *Store) StreamEnabled(k signal.Kind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch k {
	case signal.KindECG:
		return s.cfg.Streams.ECG
	case signal.KindPPG:
		return s.cfg.Streams.PPG
	case signal.KindRR:
		return s.cfg.Streams.RR
	case signal.KindPPI:
		return s.cfg.Streams.PPI
	case signal.KindHR:
		return s.cfg.Streams.HR
	default:
		return false
	}
}

// ToggleStream flips one stream kind, persists, and publishes.
func (s *Store) ToggleStream(k signal.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cfg.Streams
	switch k {
	case signal.KindECG:
		s.cfg.Streams.ECG = !s.cfg.Streams.ECG
	case signal.KindPPG:
		s.cfg.Streams.PPG = !s.cfg.Streams.PPG
	case signal.KindRR:
		s.cfg.Streams.RR = !s.cfg.Streams.RR
	case signal.KindPPI:
		s.cfg.Streams.PPI = !s.cfg.Streams.PPI
	case signal.KindHR:
		s.cfg.Streams.HR = !s.cfg.Streams.HR
	default:
		return fmt.Errorf("stream %q has no settings toggle", k)
	}
	if err := s.persistLocked(); err != nil {
		s.cfg.Streams = prev
		return err
	}
	s.publishLocked(EventSettings)
	return nil
}

// UDPEnabled reports whether outbound transmission is on.
func (s *Store) UDPEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Network.Enabled
}

// ToggleUDP flips outbound transmission, persists, and publishes.
func (s *Store) ToggleUDP() error {
	return s.toggle(func(c *config.Config) { c.Network.Enabled = !c.Network.Enabled })
}

// MirrorEnabled reports whether the MQTT mirror is on.
func (s *Store) MirrorEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Mirror.Enabled
}

// ToggleMirror flips the MQTT mirror, persists, and publishes.
func (s *Store) ToggleMirror() error {
	return s.toggle(func(c *config.Config) { c.Mirror.Enabled = !c.Mirror.Enabled })
}

// ArchiveEnabled reports whether sessions are written to the sqlite archive.
func (s *Store) ArchiveEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Archive.Enabled
}

// ToggleArchive flips archiving, persists, and publishes.
func (s *Store) ToggleArchive() error {
	return s.toggle(func(c *config.Config) { c.Archive.Enabled = !c.Archive.Enabled })
}

func (s *Store) toggle(mutate func(*config.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cfg
	mutate(&s.cfg)
	if err := s.persistLocked(); err != nil {
		s.cfg = prev
		return err
	}
	s.publishLocked(EventSettings)
	return nil
}

// Config returns a copy of the full config snapshot.
func (s *Store) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}
