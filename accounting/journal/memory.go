/*
Package journal provides accounting.Recorder implementations.

PURPOSE:
  The accounting package emits one JournalEntry per booking and does not
  care where it goes. This package keeps the in-memory implementation;
  store/sqlite holds the durable one. Both are append-only: a wrong
  booking is corrected by a new booking, never by editing history.
*/
package journal

import (
	"sync"

	"github.com/google/uuid"

	"github.com/warp/settlement-engine/accounting"
)

// =============================================================================
// MEMORY RECORDER - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an append-only in-memory journal. Safe for concurrent use;
// entries are stamped with a fresh UUID and a monotonic sequence number
// on arrival.
type Memory struct {
	mu      sync.RWMutex
	seq     int64
	entries []accounting.JournalEntry
}

func NewMemory() *Memory {
	return &Memory{}
}

// Record appends one entry, assigning its ID and sequence number.
func (m *Memory) Record(e accounting.JournalEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	e.ID = uuid.NewString()
	e.Seq = m.seq
	m.entries = append(m.entries, e)
}

// Len returns the number of recorded entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// All returns a copy of every entry in record order.
func (m *Memory) All() []accounting.JournalEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]accounting.JournalEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// ByTick returns entries recorded during [from, to], inclusive.
func (m *Memory) ByTick(from, to int) []accounting.JournalEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []accounting.JournalEntry
	for _, e := range m.entries {
		if e.Tick >= from && e.Tick <= to {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent entry, or false when the journal is
// empty.
func (m *Memory) Last() (accounting.JournalEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.entries) == 0 {
		return accounting.JournalEntry{}, false
	}
	return m.entries[len(m.entries)-1], true
}
