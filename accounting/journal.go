/*
journal.go - Append-only audit hook for bookings

PURPOSE:
  Every booking a Ledger performs can be emitted to a Recorder. The
  journal is an audit trail for inspection and post-run analysis; the
  engine never reads it back, and simulation state is never restored
  from it.

IMPLEMENTATIONS:
  - accounting/journal: in-memory, for tests and the inspection API
  - store/sqlite: durable append-only export

An empty Debit or Credit account name means the entry is single-sided
against implicit equity (equity is derived, so it has no account).
*/
package accounting

// Clock supplies the current simulation tick for journal stamping.
type Clock interface {
	Time() int
}

// JournalEntry is one booking. ID and Seq are assigned by the recorder.
type JournalEntry struct {
	ID     string
	Seq    int64
	Tick   int
	Debit  string
	Credit string
	Amount float64
	Memo   string
}

// Recorder receives journal entries. Append-only: implementations expose
// no update or delete.
type Recorder interface {
	Record(entry JournalEntry)
}
