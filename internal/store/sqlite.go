package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"
)

// SQLiteBackend persists resources to a SQLite database file. Rows carry a
// monotonically increasing id, so List returns resources in insertion
// order just like the memory backend.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) a SQLite database at path. WAL mode
// and a busy timeout keep the single daemon's connection responsive; crash
// durability is irrelevant for simulated state, so synchronous=NORMAL.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Single connection, not a pool: the backend serialises writes itself.
	db.SetMaxOpenConns(1)

	const schema = `
		CREATE TABLE IF NOT EXISTS resources (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			key   TEXT NOT NULL UNIQUE,
			value BLOB NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create resources table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// ---------- CRUD ----------

func (s *SQLiteBackend) Create(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var exists int
	if err := s.db.QueryRow(
		`SELECT COUNT(1) FROM resources WHERE key = ?`, key,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check key %s: %w", key, err)
	}
	if exists > 0 {
		return ErrAlreadyExists
	}

	if _, err := s.db.Exec(
		`INSERT INTO resources (key, value) VALUES (?, ?)`, key, raw,
	); err != nil {
		return fmt.Errorf("insert key %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) Get(key string, target interface{}) error {
	var raw []byte
	err := s.db.QueryRow(
		`SELECT value FROM resources WHERE key = ?`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get key %s: %w", key, err)
	}
	return json.Unmarshal(raw, target)
}

func (s *SQLiteBackend) Update(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(
		`UPDATE resources SET value = ? WHERE key = ?`, raw, key,
	)
	if err != nil {
		return fmt.Errorf("update key %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteBackend) Delete(key string) error {
	res, err := s.db.Exec(`DELETE FROM resources WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete key %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- List ----------

func (s *SQLiteBackend) List(prefix string, factory func() interface{}) ([]interface{}, error) {
	// substr comparison instead of LIKE: keys may contain LIKE wildcard
	// characters and need no escaping this way.
	rows, err := s.db.Query(
		`SELECT value FROM resources WHERE substr(key, 1, ?) = ? ORDER BY id`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("list prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	var results []interface{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		obj := factory()
		if err := json.Unmarshal(raw, obj); err != nil {
			return nil, err
		}
		results = append(results, obj)
	}
	return results, rows.Err()
}

// ---------- Reset / Close ----------

func (s *SQLiteBackend) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM resources`); err != nil {
		return fmt.Errorf("reset resources: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
