// Package session remembers where each deck was last left, so a later run
// can resume on the same panel.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

// Position is the settled state of a deck.
type Position struct {
	DeckKey   string
	DeckName  string
	Index     int
	Fraction  float64
	UpdatedAt time.Time
}

// DeckKey identifies a deck across runs: its absolute path, or its name
// for the built-in deck.
func DeckKey(d model.Deck) string {
	if d.Path != "" {
		return d.Path
	}
	return "builtin:" + d.Name
}

// DB handles position persistence
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the session database at the given path
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between the UI and reload paths.
	db.SetMaxOpenConns(1)

	sdb := &DB{db: db, now: time.Now}
	if err := sdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return sdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS positions (
		deck_key TEXT PRIMARY KEY,
		deck_name TEXT NOT NULL DEFAULT '',
		panel_index INTEGER NOT NULL,
		fraction REAL NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snaps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		deck_key TEXT NOT NULL,
		panel_index INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snaps_deck ON snaps(deck_key, created_at);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Save records p as the latest position of its deck and appends it to the
// snap history.
func (d *DB) Save(p Position) error {
	if p.DeckKey == "" {
		return fmt.Errorf("save position: empty deck key")
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = d.now()
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO positions (deck_key, deck_name, panel_index, fraction, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(deck_key) DO UPDATE SET
			deck_name = excluded.deck_name,
			panel_index = excluded.panel_index,
			fraction = excluded.fraction,
			updated_at = excluded.updated_at
	`, p.DeckKey, p.DeckName, p.Index, p.Fraction, p.UpdatedAt); err != nil {
		return fmt.Errorf("save position: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO snaps (deck_key, panel_index, created_at)
		VALUES (?, ?, ?)
	`, p.DeckKey, p.Index, p.UpdatedAt); err != nil {
		return fmt.Errorf("record snap: %w", err)
	}

	return tx.Commit()
}

// Load returns the last saved position for deckKey. ok is false when the
// deck has never been saved.
func (d *DB) Load(deckKey string) (p Position, ok bool, err error) {
	row := d.db.QueryRow(`
		SELECT deck_key, deck_name, panel_index, fraction, updated_at
		FROM positions
		WHERE deck_key = ?
	`, deckKey)
	err = row.Scan(&p.DeckKey, &p.DeckName, &p.Index, &p.Fraction, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, false, nil
	}
	if err != nil {
		return Position{}, false, fmt.Errorf("load position: %w", err)
	}
	return p, true, nil
}

// History returns up to limit snapped panel indices for deckKey, newest
// first.
func (d *DB) History(deckKey string, limit int) ([]int, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := d.db.Query(`
		SELECT panel_index
		FROM snaps
		WHERE deck_key = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, deckKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}
