// Package session tracks the active recording session: lifecycle, markers,
// and elapsed time. At most one session runs at a time; it lives on AppModel
// rather than per-view so mode switches cannot lose it.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrActive is returned by Start while a session is already running.
	ErrActive = errors.New("session already active")
	// ErrNotActive is returned by Stop and Mark when no session is running.
	ErrNotActive = errors.New("no active session")
)

// Marker is a named timestamp event denoting an experiment phase transition,
// e.g. "baseline start". Offset is measured from session start.
type Marker struct {
	Label  string
	Offset time.Duration
	At     time.Time
}

// Session is one recording run. Markers are ordered by Offset.
type Session struct {
	ID        string
	SubjectID string
	StartedAt time.Time
	StoppedAt time.Time // zero while running
	Markers   []Marker
}

// Clock returns the current time. Injectable for tests; production uses
// time.Now, whose monotonic reading keeps elapsed labels non-decreasing.
type Clock func() time.Time

// Tracker manages the single active session.
// Safe for concurrent use.
type Tracker struct {
	mu  sync.RWMutex
	cur *Session
	now Clock
}

// New creates a Tracker with the given clock.
// If now is nil, time.Now is used.
func New(now Clock) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now}
}

// Start begins a new session for the given subject.
// Returns ErrActive if one is already running.
func (t *Tracker) Start(subjectID string) (Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur != nil {
		return Session{}, ErrActive
	}
	t.cur = &Session{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		StartedAt: t.now(),
	}
	return t.snapshotLocked(), nil
}

// Stop ends the active session and returns the completed copy.
func (t *Tracker) Stop() (Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur == nil {
		return Session{}, ErrNotActive
	}
	t.cur.StoppedAt = t.now()
	done := t.snapshotLocked()
	t.cur = nil
	return done, nil
}

// Mark records a named timestamp event at the current elapsed offset.
func (t *Tracker) Mark(label string) (Marker, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur == nil {
		return Marker{}, ErrNotActive
	}
	at := t.now()
	m := Marker{
		Label:  label,
		Offset: at.Sub(t.cur.StartedAt),
		At:     at,
	}
	t.cur.Markers = append(t.cur.Markers, m)
	return m, nil
}

// Active reports whether a session is running.
func (t *Tracker) Active() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cur != nil
}

// Current returns a copy of the active session, if any.
func (t *Tracker) Current() (Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.cur == nil {
		return Session{}, false
	}
	return t.snapshotLocked(), true
}

// Elapsed returns the time since session start, zero when idle.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.cur == nil {
		return 0
	}
	return t.now().Sub(t.cur.StartedAt)
}

// snapshotLocked copies the current session, including its marker slice,
// so callers cannot mutate tracker state. Caller holds t.mu.
func (t *Tracker) snapshotLocked() Session {
	s := *t.cur
	s.Markers = make([]Marker, len(t.cur.Markers))
	copy(s.Markers, t.cur.Markers)
	return s
}
