// Package normalize converts parsed CSV rows into typed records.
//
// Normalization never fails: malformed ratings degrade to 0 and malformed
// dates to the zero time, which sorts as the oldest possible date.
package normalize

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/starford/homepage/internal/models"
)

// Column keys, as header names fold to in a parsed row.
const (
	ColTitle  = "title"
	ColAuthor = "author"
	ColStatus = "status"
	ColRating = "rating"
	ColDate   = "date"
	ColURL    = "url"
	ColNotes  = "notes"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"2006-01",
	"2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Books normalizes rows in order.
func Books(rows []models.Row) []models.BookRecord {
	out := make([]models.BookRecord, len(rows))
	for i, r := range rows {
		out[i] = Book(r)
	}
	return out
}

// Book normalizes one books.csv row.
func Book(r models.Row) models.BookRecord {
	return models.BookRecord{
		Title:    field(r, ColTitle),
		Author:   field(r, ColAuthor),
		Status:   field(r, ColStatus),
		Rating:   Rating(field(r, ColRating)),
		Acquired: Date(field(r, ColDate)),
	}
}

// Inspirations normalizes rows in order.
func Inspirations(rows []models.Row) []models.InspirationRecord {
	out := make([]models.InspirationRecord, len(rows))
	for i, r := range rows {
		out[i] = Inspiration(r)
	}
	return out
}

// Inspiration normalizes one inspiration.csv row.
func Inspiration(r models.Row) models.InspirationRecord {
	return models.InspirationRecord{
		URL:   field(r, ColURL),
		Notes: field(r, ColNotes),
	}
}

// Rating parses s as a float. Anything that is not a finite, non-negative
// number yields 0.
func Rating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

// Date parses s as a calendar date in UTC. Unparseable input yields the zero time.
func Date(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// field looks up the folded key. Rows built by hand may carry other casings;
// those are matched case-insensitively in sorted key order so the choice
// between colliding keys is stable.
func field(r models.Row, key string) string {
	if v, ok := r[key]; ok {
		return strings.TrimSpace(v)
	}
	keys := slices.Sorted(maps.Keys(r))
	for _, k := range keys {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return strings.TrimSpace(r[k])
		}
	}
	return ""
}
