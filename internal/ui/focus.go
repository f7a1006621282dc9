package ui

// FocusManager rotates focus across a sheet's input fields. Sheets call
// Next and Prev on tab presses, then mirror Current into their inputs.
type FocusManager struct {
	Current string   // focused field ID
	Order   []string // tab order
}

func (f *FocusManager) index() int {
	for i, id := range f.Order {
		if id == f.Current {
			return i
		}
	}
	return -1
}

// Next moves focus to the following field, wrapping at the end.
func (f *FocusManager) Next() {
	if len(f.Order) == 0 {
		return
	}
	f.Current = f.Order[(f.index()+1)%len(f.Order)]
}

// Prev moves focus to the preceding field, wrapping at the start.
func (f *FocusManager) Prev() {
	if len(f.Order) == 0 {
		return
	}
	i := f.index() - 1
	if i < 0 {
		i = len(f.Order) - 1
	}
	f.Current = f.Order[i]
}

// SetFocus jumps to a specific field. Unknown IDs are ignored so a stale
// caller cannot break the tab cycle.
func (f *FocusManager) SetFocus(id string) {
	for _, known := range f.Order {
		if known == id {
			f.Current = id
			return
		}
	}
}
