// Package export writes a point-in-time snapshot of the index to a
// SQLite file for offline querying — the control plane never reads
// from it, it exists purely as an export target for `boorudex-admin
// export`.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lorehash/boorudex/pkg/api"
)

// Snapshot writes index entries into a SQLite database.
type Snapshot struct {
	db *sql.DB
}

// Open creates or replaces the schema at path and returns a Snapshot
// ready to accept entries.
func Open(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite snapshot: %w", err)
	}

	s := &Snapshot{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite snapshot schema: %w", err)
	}
	return s, nil
}

func (s *Snapshot) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			imhash TEXT PRIMARY KEY,
			src TEXT NOT NULL,
			src_id TEXT NOT NULL,
			src_url TEXT NOT NULL,
			rating TEXT NOT NULL,
			characters TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_src ON entries(src, src_id)`,
		`CREATE TABLE IF NOT EXISTS characters (
			character TEXT,
			imhash TEXT,
			PRIMARY KEY (character, imhash)
		)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes every entry inside a single transaction.
func (s *Snapshot) WriteAll(ctx context.Context, entries []api.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := writeEntry(tx, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func writeEntry(tx *sql.Tx, e api.Entry) error {
	charsJSON, err := json.Marshal(e.Characters)
	if err != nil {
		return fmt.Errorf("marshal characters for %s: %w", e.ImHash, err)
	}

	imhash := e.ImHash.String()
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO entries (imhash, src, src_id, src_url, rating, characters)
		VALUES (?, ?, ?, ?, ?, ?)
	`, imhash, e.Src, e.SrcID, e.SrcURL, string(e.Rating), string(charsJSON)); err != nil {
		return fmt.Errorf("insert entry %s: %w", imhash, err)
	}

	if _, err := tx.Exec(`DELETE FROM characters WHERE imhash = ?`, imhash); err != nil {
		return err
	}
	for _, c := range e.Characters {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO characters (character, imhash) VALUES (?, ?)`, c, imhash); err != nil {
			return fmt.Errorf("insert character index for %s: %w", imhash, err)
		}
	}
	return nil
}

// Stats reports the entry count and approximate on-disk size of the
// snapshot. TotalEntries has the same meaning as in the index package's
// Stats.
type Stats struct {
	TotalEntries int64
	SizeBytes    int64
}

func (s *Snapshot) Stats() (*Stats, error) {
	var total int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRow(`PRAGMA page_count`).Scan(&pageCount); err != nil {
		return nil, fmt.Errorf("page_count: %w", err)
	}
	if err := s.db.QueryRow(`PRAGMA page_size`).Scan(&pageSize); err != nil {
		return nil, fmt.Errorf("page_size: %w", err)
	}

	return &Stats{TotalEntries: total, SizeBytes: pageCount * pageSize}, nil
}

// Close closes the underlying database handle.
func (s *Snapshot) Close() error {
	return s.db.Close()
}
