package persistence

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/stellarforge/simcore/internal/domain"
)

// Store persists snapshots and event logs to a SQLite database, grounded on
// the teacher's initDB/createSchema (db.go): WAL journal mode, a monotonic
// event/transaction log table, and a snapshots table. Which driver backs
// "sqlite" is chosen at build time — see driver_cgo.go / driver_modernc.go.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database at path, in WAL mode.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) createSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		event_id TEXT NOT NULL,
		payload_blob BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE TABLE IF NOT EXISTS snapshots (
		tick INTEGER PRIMARY KEY,
		state_blob BLOB NOT NULL,
		state_hash TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AppendEvents writes one tick's event log, LZ4-compressed, in a single
// transaction.
func (s *Store) AppendEvents(tick uint64, events []domain.EventEnvelope) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO events (tick, event_id, payload_blob) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		raw, err := json.Marshal(ev)
		if err != nil {
			tx.Rollback()
			return err
		}
		blob, err := CompressLZ4(raw)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := stmt.Exec(tick, string(ev.ID), blob); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveSnapshot persists the full world state, compressed, with a BLAKE3
// integrity hash the caller can re-verify on load (spec.md §6 "State
// serialisation").
func (s *Store) SaveSnapshot(state *domain.WorldState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	blob, err := CompressLZ4(raw)
	if err != nil {
		return err
	}
	hash := HashBLAKE3(raw)
	_, err = s.db.Exec(`INSERT OR REPLACE INTO snapshots (tick, state_blob, state_hash) VALUES (?, ?, ?)`,
		state.Meta.Tick, blob, hash)
	return err
}

// LoadSnapshot reads back the most recent snapshot and verifies its hash.
func (s *Store) LoadSnapshot() (*domain.WorldState, error) {
	var blob []byte
	var hash string
	var tick uint64
	err := s.db.QueryRow(`SELECT tick, state_blob, state_hash FROM snapshots ORDER BY tick DESC LIMIT 1`).Scan(&tick, &blob, &hash)
	if err != nil {
		return nil, err
	}
	raw, err := DecompressLZ4(blob)
	if err != nil {
		return nil, err
	}
	if HashBLAKE3(raw) != hash {
		return nil, errSnapshotCorrupt
	}
	var state domain.WorldState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

var errSnapshotCorrupt = sqliteError("persistence: snapshot hash mismatch")

type sqliteError string

func (e sqliteError) Error() string { return string(e) }
