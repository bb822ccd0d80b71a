/*
Package sqlite provides a SQLite-backed journal recorder.

PURPOSE:
  Durable export of the booking journal. Simulation state lives in
  memory and is never restored from here; the database is an append-only
  audit trail a run leaves behind for inspection and post-run analysis.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the journal table
  - No DELETE statements on the journal table
  - A wrong booking is corrected by a new booking

SCHEMA:
  journal: one row per booking, stamped with owner, tick, sequence

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers querying
  a finished run do not block a writer appending a live one.

USAGE:
  store, err := sqlite.New("./data/run.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger.SetRecorder(store.Recorder("bank_a"))

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - accounting/journal.go: the Recorder interface and entry type
  - accounting/journal: in-memory implementation for tests
*/
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/settlement-engine/accounting"
)

// Store is a SQLite-backed journal. One Store serves every ledger in a
// run; per-ledger views are created with Recorder.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	seq int64
}

// New opens (or creates) the database at dbPath and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Journal (append-only booking log)
	CREATE TABLE IF NOT EXISTS journal (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		owner TEXT NOT NULL,
		tick INTEGER NOT NULL,
		debit_account TEXT NOT NULL,
		credit_account TEXT NOT NULL,
		amount REAL NOT NULL,
		memo TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journal_owner
		ON journal(owner, seq);
	CREATE INDEX IF NOT EXISTS idx_journal_tick
		ON journal(tick);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORDER VIEWS
// =============================================================================

// Recorder returns an accounting.Recorder that stamps every entry with
// the given owner name. One view per ledger, all sharing this store's
// sequence.
func (s *Store) Recorder(owner string) accounting.Recorder {
	return &ownerRecorder{store: s, owner: owner}
}

type ownerRecorder struct {
	store *Store
	owner string
}

func (r *ownerRecorder) Record(e accounting.JournalEntry) {
	r.store.append(r.owner, e)
}

// append inserts one row. The Recorder interface has no error return,
// so a failed insert is swallowed; the engine must not stall on its
// audit trail.
func (s *Store) append(owner string, e accounting.JournalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	query := `
		INSERT INTO journal
		(id, seq, owner, tick, debit_account, credit_account, amount, memo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	s.db.Exec(query,
		uuid.NewString(),
		s.seq,
		owner,
		e.Tick,
		e.Debit,
		e.Credit,
		e.Amount,
		e.Memo,
	)
}

// =============================================================================
// QUERIES
// =============================================================================

// Entry is one stored journal row.
type Entry struct {
	accounting.JournalEntry
	Owner string
}

// ByOwner returns every entry booked by one ledger, in booking order.
func (s *Store) ByOwner(owner string) ([]Entry, error) {
	query := `
		SELECT id, seq, owner, tick, debit_account, credit_account, amount, memo
		FROM journal
		WHERE owner = ?
		ORDER BY seq ASC
	`
	return s.queryEntries(query, owner)
}

// ByTickRange returns entries booked during [from, to], inclusive,
// across all owners.
func (s *Store) ByTickRange(from, to int) ([]Entry, error) {
	query := `
		SELECT id, seq, owner, tick, debit_account, credit_account, amount, memo
		FROM journal
		WHERE tick >= ? AND tick <= ?
		ORDER BY seq ASC
	`
	return s.queryEntries(query, from, to)
}

// All returns the full journal in booking order.
func (s *Store) All() ([]Entry, error) {
	query := `
		SELECT id, seq, owner, tick, debit_account, credit_account, amount, memo
		FROM journal
		ORDER BY seq ASC
	`
	return s.queryEntries(query)
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM journal").Scan(&count)
	return count, err
}

func (s *Store) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Seq, &e.Owner, &e.Tick,
			&e.Debit, &e.Credit, &e.Amount, &e.Memo,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
