package canvas

// DefaultHistoryCap bounds how many snapshots the history engine keeps.
const DefaultHistoryCap = 50

// History is a bounded stack of deep snapshots with a cursor.
// The entry at the cursor always equals the last pushed-or-restored
// logical state; cursor -1 means nothing has been committed yet.
type History struct {
	entries []*Snapshot
	cursor  int
	cap     int
}

// NewHistory creates a history with the given capacity.
// A non-positive cap falls back to DefaultHistoryCap.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &History{cursor: -1, cap: capacity}
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the current cursor index.
func (h *History) Cursor() int {
	return h.cursor
}

// Push appends a snapshot at the cursor. Committing after an undo
// discards the redo branch; exceeding the cap evicts the oldest entry
// and shifts the cursor down so it stays on the same logical state.
func (h *History) Push(s *Snapshot) {
	if h.cursor < len(h.entries)-1 {
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, s)
	h.cursor++
	if len(h.entries) > h.cap {
		h.entries = h.entries[1:]
		h.cursor--
	}
}

// Undo moves the cursor back one entry and returns that snapshot.
// At the bottom of the stack it reports a no-op.
func (h *History) Undo() (*Snapshot, bool) {
	if h.cursor <= 0 {
		return nil, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo moves the cursor forward one entry and returns that snapshot.
// At the top of the stack it reports a no-op.
func (h *History) Redo() (*Snapshot, bool) {
	if h.cursor >= len(h.entries)-1 {
		return nil, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}
