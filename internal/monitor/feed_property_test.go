package monitor

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// The feed's one hard invariant: however appends arrive, single lines or
// batches in any mix, the buffer never exceeds Capacity and IDs stay
// strictly increasing.
func TestFeedCapacityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("len(feed) <= Capacity after any append sequence", prop.ForAll(
		func(batchSizes []int) bool {
			f := NewFeed()
			var lastID uint64
			for _, n := range batchSizes {
				entries := make([]Entry, n)
				for i := range entries {
					entries[i] = Entry{Text: "x", Tone: ToneSignal}
				}
				for _, ln := range f.AppendBatch(entries) {
					if ln.ID <= lastID {
						return false
					}
					lastID = ln.ID
				}
				if f.Len() > Capacity {
					return false
				}
			}
			return f.Len() <= Capacity
		},
		gen.SliceOf(gen.IntRange(0, 50)),
	))

	properties.TestingRun(t)
}
