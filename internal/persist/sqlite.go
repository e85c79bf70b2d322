package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// SQLiteFileName is the database file inside the data directory.
const SQLiteFileName = "recipevault.db"

// sqliteBusyMs is how long a connection waits for another process's lock.
const sqliteBusyMs = 5000

const createKV = `CREATE TABLE IF NOT EXISTS kv (
    namespace TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// SQLite stores the state as one row of a key-value table.
type SQLite struct {
	mu  sync.Mutex
	db  *sql.DB
	key string
}

var _ Backend = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path, key string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, sqliteBusyMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := db.Exec(createKV); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}
	return &SQLite{db: db, key: key}, nil
}

// Load returns the decoded state row, or types.ErrNoState when the key has
// no row.
func (s *SQLite) Load() (types.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return types.State{}, types.ErrStoreClosed
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE namespace = ?", s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return types.State{}, types.ErrNoState
	}
	if err != nil {
		return types.State{}, fmt.Errorf("reading state row: %w", err)
	}
	return Decode([]byte(value))
}

// Save upserts the encoded state.
func (s *SQLite) Save(state types.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return types.ErrStoreClosed
	}

	data, err := Encode(state)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO kv (namespace, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(namespace) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing state row: %w", err)
	}
	return nil
}

// Close closes the database. Idempotent.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
