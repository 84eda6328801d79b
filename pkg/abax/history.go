package abax

import "time"

// HistoryEntry is one accepted bound update: the bounds after the update
// and the wall clock time at which it happened.
type HistoryEntry struct {
	Primal  float64
	Dual    float64
	Elapsed time.Duration
}

// History records the solution history of a run, one entry per accepted
// primal or dual bound update, in order.
type History struct {
	entries []HistoryEntry
}

func (h *History) update(primal, dual float64, elapsed time.Duration) {
	h.entries = append(h.entries, HistoryEntry{Primal: primal, Dual: dual, Elapsed: elapsed})
}

// Entries returns a copy of the recorded history.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	return len(h.entries)
}
