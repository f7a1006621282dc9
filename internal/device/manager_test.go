package device

import (
	"errors"
	"testing"
	"time"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

// fastProfiles keeps every stream rate high enough that batches arrive
// within milliseconds once the timing knobs are shrunk.
func fastProfiles() []Profile {
	return []Profile{
		{
			ID:      "H10-TEST01",
			Name:    "Polar H10",
			BaseHR:  72,
			RSSI:    -60,
			Battery: 80,
			Streams: []StreamSpec{
				{Kind: "ecg", Hz: 130},
				{Kind: "hr", Hz: 100},
				{Kind: "rr", Hz: 100},
			},
		},
		{
			ID:      "VS-TEST02",
			Name:    "Polar Verity Sense",
			BaseHR:  70,
			RSSI:    -64,
			Battery: 92,
			Streams: []StreamSpec{
				{Kind: "ppg", Hz: 55},
				{Kind: "hr", Hz: 100},
			},
		},
	}
}

// newTestManager builds a manager with timing shrunk so lifecycle tests run
// in milliseconds.
func newTestManager(t *testing.T, profiles []Profile, gate func(signal.Kind) bool) *Manager {
	t.Helper()
	m := NewManager(profiles, gate)
	m.connectDelay = time.Millisecond
	m.batchEvery = 5 * time.Millisecond
	m.reconnectInitial = time.Millisecond
	m.reconnectMax = 4 * time.Millisecond
	t.Cleanup(m.Stop)
	return m
}

func waitState(t *testing.T, events <-chan Event, id string, want State) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.DeviceID == id && ev.State == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s to reach %s", id, want)
		}
	}
}

func waitBatch(t *testing.T, batches <-chan signal.Batch, accept func(signal.Batch) bool) signal.Batch {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case b := <-batches:
			if accept == nil || accept(b) {
				return b
			}
		case <-deadline:
			t.Fatal("timed out waiting for batch")
		}
	}
}

func TestConnectLifecycle(t *testing.T) {
	m := newTestManager(t, fastProfiles(), nil)
	const id = "H10-TEST01"

	if err := m.Connect(id); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitState(t, m.Events(), id, StateConnecting)
	waitState(t, m.Events(), id, StateConnected)
	waitState(t, m.Events(), id, StateStreaming)

	b := waitBatch(t, m.Batches(), func(b signal.Batch) bool { return b.DeviceID == id })
	if len(b.Values) == 0 {
		t.Error("batch has no values")
	}
	if b.Seq == 0 {
		t.Error("batch seq should start at 1")
	}

	if err := m.Disconnect(id); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	waitState(t, m.Events(), id, StateDisconnected)

	if state, _ := m.StateOf(id); state != StateDisconnected {
		t.Errorf("state = %s, want disconnected", state)
	}
}

func TestConnectUnknownDevice(t *testing.T) {
	m := newTestManager(t, fastProfiles(), nil)
	if err := m.Connect("nope"); err == nil {
		t.Fatal("expected error for unknown device")
	}
}

func TestConnectWhileConnected(t *testing.T) {
	m := newTestManager(t, fastProfiles(), nil)
	const id = "H10-TEST01"

	if err := m.Connect(id); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitState(t, m.Events(), id, StateStreaming)

	if err := m.Connect(id); err == nil {
		t.Fatal("expected error connecting an already-streaming device")
	}
}

func TestDisconnectDuringHandshakeWinsOverStreaming(t *testing.T) {
	m := newTestManager(t, fastProfiles(), nil)
	const id = "H10-TEST01"

	// A disconnect can land between the connected and streaming transitions;
	// the promotion must notice and back off instead of reviving the device.
	m.mu.Lock()
	m.states[id] = StateDisconnected
	m.mu.Unlock()

	if m.startStreams(m.profiles[id]) {
		t.Fatal("a device disconnected mid-handshake must not start streaming")
	}
	if state, _ := m.StateOf(id); state != StateDisconnected {
		t.Errorf("state = %s, want disconnected", state)
	}
	m.mu.Lock()
	_, registered := m.cancels[id]
	m.mu.Unlock()
	if registered {
		t.Error("no stop channel should be registered for a dead handshake")
	}
}

func TestDisconnectWhenDisconnected(t *testing.T) {
	m := newTestManager(t, fastProfiles(), nil)
	if err := m.Disconnect("H10-TEST01"); err == nil {
		t.Fatal("expected error")
	}
}

func TestGateBlocksKinds(t *testing.T) {
	onlyHR := func(k signal.Kind) bool { return k == signal.KindHR }
	m := newTestManager(t, fastProfiles(), onlyHR)
	const id = "H10-TEST01"

	if err := m.Connect(id); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitState(t, m.Events(), id, StateStreaming)

	for i := 0; i < 5; i++ {
		b := waitBatch(t, m.Batches(), nil)
		if b.Kind != signal.KindHR {
			t.Fatalf("gated kind %s leaked through", b.Kind)
		}
	}
}

func TestSequenceIncrementsPerStream(t *testing.T) {
	onlyHR := func(k signal.Kind) bool { return k == signal.KindHR }
	m := newTestManager(t, fastProfiles(), onlyHR)
	const id = "VS-TEST02"

	if err := m.Connect(id); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitState(t, m.Events(), id, StateStreaming)

	first := waitBatch(t, m.Batches(), func(b signal.Batch) bool { return b.DeviceID == id })
	second := waitBatch(t, m.Batches(), func(b signal.Batch) bool { return b.DeviceID == id })
	if second.Seq != first.Seq+1 {
		t.Errorf("seq %d then %d, want consecutive", first.Seq, second.Seq)
	}
}

func TestDropLinkReconnects(t *testing.T) {
	m := newTestManager(t, fastProfiles(), nil)
	const id = "H10-TEST01"

	if err := m.Connect(id); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	waitState(t, m.Events(), id, StateStreaming)

	if err := m.DropLink(id); err != nil {
		t.Fatalf("DropLink: %v", err)
	}
	ev := waitState(t, m.Events(), id, StateReconnecting)
	if !errors.Is(ev.Err, ErrLinkLost) {
		t.Errorf("drop event err = %v, want ErrLinkLost", ev.Err)
	}

	// The simulation fails the first attempt, then lets the handshake
	// through: connecting, connected, streaming again.
	waitState(t, m.Events(), id, StateConnecting)
	waitState(t, m.Events(), id, StateStreaming)
	waitBatch(t, m.Batches(), func(b signal.Batch) bool { return b.DeviceID == id })
}

func TestDropLinkWhenDisconnected(t *testing.T) {
	m := newTestManager(t, fastProfiles(), nil)
	if err := m.DropLink("H10-TEST01"); err == nil {
		t.Fatal("expected error dropping a disconnected device")
	}
}

func TestDevicesListing(t *testing.T) {
	m := newTestManager(t, BuiltinProfiles(), nil)
	devices := m.Devices()
	if len(devices) != 2 {
		t.Fatalf("len = %d, want 2", len(devices))
	}
	if devices[0].ID != "H10-8C2B1D" || devices[1].ID != "VS-3F9A2C" {
		t.Errorf("order = %s, %s", devices[0].ID, devices[1].ID)
	}
	for _, d := range devices {
		if d.State != StateDisconnected {
			t.Errorf("%s state = %s, want disconnected", d.ID, d.State)
		}
		if d.Name == "" || d.Battery == 0 {
			t.Errorf("%s listing incomplete: %+v", d.ID, d)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	m := newTestManager(t, fastProfiles(), nil)
	m.Stop()
	m.Stop()
}
