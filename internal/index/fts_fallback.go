//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE over the record tables.
	return nil
}

func ftsReplace(_ *sql.Tx, _ string, _ []ftsRow) error {
	// Records are already stored in their own tables; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search over books and inspiration links
// (fallback when FTS5 is not compiled in). Books are listed first.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + escapeLike(query) + "%"
	rows, err := db.conn.Query(`
		SELECT kind, file, title, detail FROM (
			SELECT 'book' AS kind, file, title, author AS detail, 0 AS grp, pos
			FROM books
			WHERE title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\' OR status LIKE ? ESCAPE '\'
			UNION ALL
			SELECT 'inspiration', file, url, notes, 1, pos
			FROM inspirations
			WHERE url LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\'
		)
		ORDER BY grp, file, pos
		LIMIT ?
	`, like, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Kind, &r.File, &r.Title, &r.Detail); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes query match literally inside a LIKE ... ESCAPE '\' pattern.
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}
