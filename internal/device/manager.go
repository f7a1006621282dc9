package device

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

// State is the connection lifecycle of one simulated device.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateStreaming
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateStreaming:
		return "streaming"
	case StateReconnecting:
		return "reconnecting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrLinkLost marks events caused by a simulated connection drop.
var ErrLinkLost = errors.New("link lost")

// Event reports a device state change.
type Event struct {
	DeviceID string
	State    State
	Err      error // non-nil when a drop or failed attempt caused the change
}

// Status is a point-in-time view of one device for the devices panel.
type Status struct {
	ID      string
	Name    string
	State   State
	RSSI    int
	Battery int
}

// Manager runs the simulated sensors: connection handshakes, per-stream
// sample generation, and capped-backoff reconnects after a drop.
//
// Events and batches are delivered over buffered channels with non-blocking
// sends; a consumer that falls behind loses data rather than stalling the
// streams.
type Manager struct {
	mu       sync.Mutex
	profiles map[string]Profile
	order    []string
	states   map[string]State
	cancels  map[string]chan struct{}

	events  chan Event
	batches chan signal.Batch
	gate    func(signal.Kind) bool

	shutdown chan struct{}
	stopOnce sync.Once

	// Timing knobs, overridable in tests.
	connectDelay      time.Duration
	batchEvery        time.Duration
	reconnectInitial  time.Duration
	reconnectMax      time.Duration
	reconnectAttempts int // attempts until a simulated reconnect succeeds
	seed              int64
}

// NewManager creates a manager over the given profiles. The gate decides per
// batch whether a stream kind is currently enabled; nil means all streams on.
func NewManager(profiles []Profile, gate func(signal.Kind) bool) *Manager {
	m := &Manager{
		profiles: make(map[string]Profile, len(profiles)),
		order:    make([]string, 0, len(profiles)),
		states:   make(map[string]State, len(profiles)),
		cancels:  make(map[string]chan struct{}),
		events:   make(chan Event, 64),
		batches:  make(chan signal.Batch, 256),
		gate:     gate,
		shutdown: make(chan struct{}),

		connectDelay:      400 * time.Millisecond,
		batchEvery:        200 * time.Millisecond,
		reconnectInitial:  time.Second,
		reconnectMax:      8 * time.Second,
		reconnectAttempts: 2,
	}
	for _, p := range profiles {
		m.profiles[p.ID] = p
		m.order = append(m.order, p.ID)
		m.states[p.ID] = StateDisconnected
	}
	return m
}

// Events returns the state-change channel.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Batches returns the generated-sample channel.
func (m *Manager) Batches() <-chan signal.Batch {
	return m.batches
}

// Profiles returns the configured profiles in their original order.
func (m *Manager) Profiles() []Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Profile, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.profiles[id])
	}
	return out
}

// Devices lists every known device in profile order.
func (m *Manager) Devices() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Status, 0, len(m.order))
	for _, id := range m.order {
		p := m.profiles[id]
		out = append(out, Status{
			ID:      p.ID,
			Name:    p.Name,
			State:   m.states[id],
			RSSI:    p.RSSI,
			Battery: p.Battery,
		})
	}
	return out
}

// StateOf reports the current state of one device.
func (m *Manager) StateOf(id string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[id]
	return s, ok
}

// Connect starts the handshake for a disconnected device.
func (m *Manager) Connect(id string) error {
	m.mu.Lock()
	p, ok := m.profiles[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown device %q", id)
	}
	if m.states[id] != StateDisconnected {
		state := m.states[id]
		m.mu.Unlock()
		return fmt.Errorf("device %s is %s", id, state)
	}
	m.states[id] = StateConnecting
	m.mu.Unlock()

	m.emit(Event{DeviceID: id, State: StateConnecting})
	go m.handshake(p)
	return nil
}

// Disconnect stops a device's streams and marks it disconnected.
func (m *Manager) Disconnect(id string) error {
	m.mu.Lock()
	if _, ok := m.profiles[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown device %q", id)
	}
	if m.states[id] == StateDisconnected {
		m.mu.Unlock()
		return fmt.Errorf("device %s already disconnected", id)
	}
	if stop := m.cancels[id]; stop != nil {
		close(stop)
		delete(m.cancels, id)
	}
	m.states[id] = StateDisconnected
	m.mu.Unlock()

	m.emit(Event{DeviceID: id, State: StateDisconnected})
	return nil
}

// DropLink simulates a connection loss on a connected device. The manager
// stops its streams and reconnects with capped doubling backoff.
func (m *Manager) DropLink(id string) error {
	m.mu.Lock()
	p, ok := m.profiles[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown device %q", id)
	}
	if m.states[id] != StateConnected && m.states[id] != StateStreaming {
		state := m.states[id]
		m.mu.Unlock()
		return fmt.Errorf("device %s is %s, cannot drop", id, state)
	}
	if stop := m.cancels[id]; stop != nil {
		close(stop)
		delete(m.cancels, id)
	}
	m.states[id] = StateReconnecting
	m.mu.Unlock()

	m.emit(Event{DeviceID: id, State: StateReconnecting, Err: ErrLinkLost})
	go m.reconnectLoop(p)
	return nil
}

// Stop shuts down every stream and supervisor goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.shutdown)
	})
}

// handshake waits out the simulated connection delay, then brings the
// device up and starts its streams.
func (m *Manager) handshake(p Profile) {
	timer := time.NewTimer(m.connectDelay)
	select {
	case <-timer.C:
	case <-m.shutdown:
		timer.Stop()
		return
	}

	m.mu.Lock()
	if m.states[p.ID] != StateConnecting {
		// Operator disconnected or dropped the device mid-handshake.
		m.mu.Unlock()
		return
	}
	m.states[p.ID] = StateConnected
	m.mu.Unlock()
	m.emit(Event{DeviceID: p.ID, State: StateConnected})

	m.startStreams(p)
}

// startStreams promotes a connected device to streaming and launches its
// stream goroutines. Reports false when the device left StateConnected in
// the meantime, e.g. an operator disconnect racing the handshake.
func (m *Manager) startStreams(p Profile) bool {
	stop := make(chan struct{})
	m.mu.Lock()
	if m.states[p.ID] != StateConnected {
		m.mu.Unlock()
		return false
	}
	m.states[p.ID] = StateStreaming
	m.cancels[p.ID] = stop
	m.mu.Unlock()
	m.emit(Event{DeviceID: p.ID, State: StateStreaming})

	for _, spec := range p.Streams {
		kind, err := signal.ParseKind(spec.Kind)
		if err != nil {
			continue
		}
		go m.streamLoop(p, kind, spec.Hz, stop)
	}
	return true
}

// streamLoop generates batches for one stream until stopped. Gated-off kinds
// keep the loop alive but emit nothing, so toggles take effect on the next
// batch boundary.
func (m *Manager) streamLoop(p Profile, kind signal.Kind, hz int, stop <-chan struct{}) {
	gen := newGenerator(kind, p.BaseHR, seedFor(p.ID, kind, m.seed))

	interval := m.batchEvery
	per := int(time.Duration(hz) * interval / time.Second)
	if per < 1 {
		per = 1
		interval = time.Second / time.Duration(hz)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-stop:
			return
		case <-m.shutdown:
			return
		case t := <-ticker.C:
			if m.gate != nil && !m.gate(kind) {
				continue
			}
			seq++
			b := signal.Batch{
				Kind:     kind,
				DeviceID: p.ID,
				Seq:      seq,
				Values:   gen.next(per),
				At:       t,
			}
			select {
			case m.batches <- b:
			default:
				// Consumer behind; drop the batch.
			}
		}
	}
}

// reconnectLoop retries after a drop with capped doubling backoff, in the
// same shape as a network client supervisor. The simulation fails a fixed
// number of attempts before letting the handshake through.
func (m *Manager) reconnectLoop(p Profile) {
	delay := m.reconnectInitial
	for attempt := 1; ; attempt++ {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-m.shutdown:
			timer.Stop()
			return
		}

		m.mu.Lock()
		if m.states[p.ID] != StateReconnecting {
			// Operator disconnected the device while we were backing off.
			m.mu.Unlock()
			return
		}
		if attempt < m.reconnectAttempts {
			m.mu.Unlock()
			m.emit(Event{
				DeviceID: p.ID,
				State:    StateReconnecting,
				Err:      fmt.Errorf("reconnect attempt %d failed", attempt),
			})
			delay *= 2
			if delay > m.reconnectMax {
				delay = m.reconnectMax
			}
			continue
		}
		m.states[p.ID] = StateConnecting
		m.mu.Unlock()
		m.emit(Event{DeviceID: p.ID, State: StateConnecting})
		m.handshake(p)
		return
	}
}

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}
