package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/homepage/internal/models"
)

// Record kinds reported in search results.
const (
	KindBook        = "book"
	KindInspiration = "inspiration"
)

// SearchResult represents one search hit.
type SearchResult struct {
	Kind   string `json:"kind"`
	File   string `json:"file"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ftsRow is one entry of the full-text table.
type ftsRow struct {
	kind   string
	title  string
	detail string
}

// ReplaceBooks swaps every indexed book of file for books, in one transaction.
func (db *DB) ReplaceBooks(file, checksum string, books []models.BookRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := clearFile(tx, file); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO books (file, pos, title, author, status, rating, acquired)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare book insert: %w", err)
	}
	defer stmt.Close()

	fts := make([]ftsRow, 0, len(books))
	for i, b := range books {
		var acquired any
		if b.HasDate() {
			acquired = b.Acquired.Format(time.DateOnly)
		}
		if _, err := stmt.Exec(file, i, b.Title, b.Author, b.Status, b.Rating, acquired); err != nil {
			return fmt.Errorf("index: insert book: %w", err)
		}
		fts = append(fts, ftsRow{kind: KindBook, title: b.Title, detail: b.Author + " " + b.Status})
	}
	if err := ftsReplace(tx, file, fts); err != nil {
		return err
	}
	if err := upsertFile(tx, file, checksum); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceInspirations swaps every indexed inspiration link of file.
func (db *DB) ReplaceInspirations(file, checksum string, links []models.InspirationRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := clearFile(tx, file); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO inspirations (file, pos, url, notes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare inspiration insert: %w", err)
	}
	defer stmt.Close()

	fts := make([]ftsRow, 0, len(links))
	for i, l := range links {
		if _, err := stmt.Exec(file, i, l.URL, l.Notes); err != nil {
			return fmt.Errorf("index: insert inspiration: %w", err)
		}
		fts = append(fts, ftsRow{kind: KindInspiration, title: l.URL, detail: l.Notes})
	}
	if err := ftsReplace(tx, file, fts); err != nil {
		return err
	}
	if err := upsertFile(tx, file, checksum); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordFile stores the checksum of a file that contributes no searchable
// records (coordinates, unrecognised data files) so Sync can skip it later.
func (db *DB) RecordFile(name, checksum string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := clearFile(tx, name); err != nil {
		return err
	}
	if err := upsertFile(tx, name, checksum); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteFile removes a file and every record indexed from it.
func (db *DB) DeleteFile(name string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := clearFile(tx, name); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE name = ?`, name); err != nil {
		return fmt.Errorf("index: delete file: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a file, or empty string if not found.
func (db *DB) GetChecksum(name string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM files WHERE name = ?`, name).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns the stored checksum of every indexed file.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT name, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var name, cs string
		if err := rows.Scan(&name, &cs); err != nil {
			return nil, err
		}
		out[name] = cs
	}
	return out, rows.Err()
}

// BookCount returns the number of books indexed from file.
func (db *DB) BookCount(file string) (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM books WHERE file = ?`, file).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count books: %w", err)
	}
	return n, nil
}

func clearFile(tx *sql.Tx, file string) error {
	if _, err := tx.Exec(`DELETE FROM books WHERE file = ?`, file); err != nil {
		return fmt.Errorf("index: clear books: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM inspirations WHERE file = ?`, file); err != nil {
		return fmt.Errorf("index: clear inspirations: %w", err)
	}
	ftsDelete(tx, file)
	return nil
}

func upsertFile(tx *sql.Tx, name, checksum string) error {
	_, err := tx.Exec(`
		INSERT INTO files (name, checksum, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, name, checksum, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("index: upsert file: %w", err)
	}
	return nil
}
