// Package state persists the training anchor in a local SQLite
// settings file. The anchor lives in two named slots (anchor_date,
// anchor_day_number) written in one transaction so readers never see
// a half-updated pair.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/claude/liftcycle/internal/engine"
)

const (
	keyAnchorDate      = "anchor_date"
	keyAnchorDayNumber = "anchor_day_number"
)

// DB holds the engine's persisted configuration slots.
type DB struct {
	db *sql.DB
}

// Compile-time check: *DB satisfies engine.AnchorStore.
var _ engine.AnchorStore = (*DB)(nil)

// Open opens (or creates) the SQLite settings database at
// dir/state.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating settings table: %w", err)
	}

	return &DB{db: db}, nil
}

// Load reads the anchor slots. Returns ok=false when either slot is
// absent or holds a zero/sentinel value.
func (s *DB) Load() (engine.Anchor, bool, error) {
	dateStr, ok, err := s.get(keyAnchorDate)
	if err != nil || !ok {
		return engine.Anchor{}, false, err
	}
	numStr, ok, err := s.get(keyAnchorDayNumber)
	if err != nil || !ok {
		return engine.Anchor{}, false, err
	}

	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return engine.Anchor{}, false, fmt.Errorf("parsing anchor date: %w", err)
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return engine.Anchor{}, false, fmt.Errorf("parsing anchor day number: %w", err)
	}
	if date.IsZero() || num < 1 {
		return engine.Anchor{}, false, nil
	}
	return engine.Anchor{Date: date, DayNumber: num}, true, nil
}

// Save writes both anchor slots in one transaction.
func (s *DB) Save(a engine.Anchor) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting anchor write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, kv := range []struct{ key, value string }{
		{keyAnchorDate, a.Date.Format(time.RFC3339)},
		{keyAnchorDayNumber, strconv.Itoa(a.DayNumber)},
	} {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			kv.key, kv.value,
		); err != nil {
			return fmt.Errorf("writing %s: %w", kv.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing anchor write: %w", err)
	}
	return nil
}

// Clear removes both anchor slots. Used by liftctl when starting a
// new mesocycle from scratch.
func (s *DB) Clear() error {
	_, err := s.db.Exec(`DELETE FROM settings WHERE key IN (?, ?)`,
		keyAnchorDate, keyAnchorDayNumber)
	if err != nil {
		return fmt.Errorf("clearing anchor: %w", err)
	}
	return nil
}

// Close closes the settings database.
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}
