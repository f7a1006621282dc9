package signal

import (
	"sort"
	"sync"
)

// Snapshot caches the last-known value per stream, with heart rate keyed per
// device. Values are overwritten whenever a new sample arrives and read as
// copies at tick time, so a tick observes a consistent set regardless of how
// fast upstream devices publish.
type Snapshot struct {
	mu     sync.RWMutex
	values map[Kind]int
	hr     map[string]int
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		values: make(map[Kind]int),
		hr:     make(map[string]int),
	}
}

// Observe records a sample, overwriting the previous value for its key.
// HR samples are keyed by device; every other kind keeps a single slot.
func (s *Snapshot) Observe(smp Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if smp.Kind == KindHR {
		s.hr[smp.DeviceID] = smp.Value
		return
	}
	s.values[smp.Kind] = smp.Value
}

// Value returns the last-known value for a non-HR kind.
func (s *Snapshot) Value(k Kind) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[k]
	return v, ok
}

// HeartRate returns the last-known heart rate for the given device.
func (s *Snapshot) HeartRate(deviceID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.hr[deviceID]
	return v, ok
}

// HeartRates returns a copy of the per-device heart rate map.
func (s *Snapshot) HeartRates() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.hr))
	for id, v := range s.hr {
		out[id] = v
	}
	return out
}

// Devices returns the device IDs that have reported heart rate, sorted.
func (s *Snapshot) Devices() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.hr))
	for id := range s.hr {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset clears all cached values. Called when a new session starts so stale
// values from a previous run cannot leak into the new log.
func (s *Snapshot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[Kind]int)
	s.hr = make(map[string]int)
}
