// Package monitor holds the scrolling signal log shown during a recording:
// a bounded feed of immutable display lines plus the deterministic
// formatters that turn snapshot values into one tick batch.
package monitor

import "sync"

// Capacity is the maximum number of lines the feed retains. Once an append
// pushes past it, the oldest lines are evicted.
const Capacity = 200

// Tone classifies a line for display emphasis.
type Tone int

const (
	ToneSignal    Tone = iota // per-tick sample lines
	ToneLifecycle             // session start/stop
	ToneMarker                // experiment phase markers
	ToneAlert                 // device drops, send failures
	ToneMuted                 // separators, placeholders-only notes
)

// Line is one rendered feed entry. Never mutated after creation.
type Line struct {
	ID   uint64
	Text string
	Tone Tone
}

// Entry is a line waiting to be appended; the feed assigns the ID.
type Entry struct {
	Text string
	Tone Tone
}

// Feed is the bounded display buffer. Safe for concurrent use, though in
// practice only the UI update loop touches it.
type Feed struct {
	mu     sync.Mutex
	lines  []Line
	nextID uint64
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Append adds one line and returns it. Oldest lines are evicted once the
// feed exceeds Capacity.
func (f *Feed) Append(text string, tone Tone) Line {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendLocked(Entry{Text: text, Tone: tone})
}

// AppendBatch adds a group of entries produced by one tick or event, then
// trims once. Returns the appended lines.
func (f *Feed) AppendBatch(entries []Entry) []Line {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Line, 0, len(entries))
	for _, e := range entries {
		out = append(out, f.appendLocked(e))
	}
	return out
}

func (f *Feed) appendLocked(e Entry) Line {
	f.nextID++
	ln := Line{ID: f.nextID, Text: e.Text, Tone: e.Tone}
	f.lines = append(f.lines, ln)
	if over := len(f.lines) - Capacity; over > 0 {
		f.lines = append(f.lines[:0], f.lines[over:]...)
	}
	return ln
}

// Lines returns a copy of the current feed, oldest first.
func (f *Feed) Lines() []Line {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Line, len(f.lines))
	copy(out, f.lines)
	return out
}

// Len returns the current number of lines.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lines)
}

// Clear drops every line. Used when a new session starts.
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = f.lines[:0]
}
