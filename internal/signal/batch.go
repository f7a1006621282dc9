package signal

import "time"

// Batch is a burst of values generated on one stream between two emit points.
// The wire format carries whole batches; the snapshot only keeps the newest
// value of each.
type Batch struct {
	Kind     Kind
	DeviceID string
	Seq      uint64 // per-stream sequence, starts at 1
	Values   []int
	At       time.Time
}

// Last returns the newest value in the batch.
func (b Batch) Last() (int, bool) {
	if len(b.Values) == 0 {
		return 0, false
	}
	return b.Values[len(b.Values)-1], true
}

// ObserveBatch records the newest value of the batch, if any.
func (s *Snapshot) ObserveBatch(b Batch) {
	v, ok := b.Last()
	if !ok {
		return
	}
	s.Observe(Sample{Kind: b.Kind, DeviceID: b.DeviceID, Value: v, At: b.At})
}
