package abax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRecordsInOrder(t *testing.T) {
	h := &History{}
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Entries())

	h.update(10, 1, time.Second)
	h.update(8, 1, 2*time.Second)
	h.update(8, 5, 3*time.Second)

	entries := h.Entries()
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, HistoryEntry{Primal: 10, Dual: 1, Elapsed: time.Second}, entries[0])
	assert.Equal(t, HistoryEntry{Primal: 8, Dual: 5, Elapsed: 3 * time.Second}, entries[2])
}

func TestHistoryEntriesAreACopy(t *testing.T) {
	h := &History{}
	h.update(10, 1, time.Second)

	entries := h.Entries()
	entries[0].Primal = -1
	assert.Equal(t, 10.0, h.Entries()[0].Primal, "mutating the copy does not reach the log")
}
