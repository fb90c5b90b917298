// Package sorting orders reading-list records by a named sort mode.
package sorting

import (
	"cmp"
	"slices"

	"github.com/starford/homepage/internal/models"
)

// Mode names an ordering strategy selectable from the sort control.
type Mode string

// Supported sort modes.
const (
	RatingDesc Mode = "rating-desc"
	DateDesc   Mode = "date-desc"
	RatingAsc  Mode = "rating-asc"
)

// Default is the mode a fresh page starts with.
const Default = RatingDesc

// cycle is the order the sort control steps through.
var cycle = []Mode{RatingDesc, DateDesc, RatingAsc}

var labels = map[Mode]string{
	RatingDesc: "Rating",
	DateDesc:   "Date",
	RatingAsc:  "Rating (low first)",
}

// Modes returns the supported modes in cycle order.
func Modes() []Mode {
	return slices.Clone(cycle)
}

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	return slices.Contains(cycle, m)
}

// Label returns the human-readable name of m, or the raw value when unknown.
func Label(m Mode) string {
	if l, ok := labels[m]; ok {
		return l
	}
	return string(m)
}

// ParseMode maps s to a Mode. Empty or unknown input yields Default.
func ParseMode(s string) Mode {
	m := Mode(s)
	if m.Valid() {
		return m
	}
	return Default
}

// Next returns the mode following m in the fixed cycle.
// An unknown mode restarts the cycle at Default.
func Next(m Mode) Mode {
	i := slices.Index(cycle, m)
	if i < 0 {
		return Default
	}
	return cycle[(i+1)%len(cycle)]
}

// Sort returns a new slice holding records ordered by mode. The input is
// never modified. Equal keys keep their input order, so applying the same
// mode twice is a no-op. An unknown mode returns the records unchanged.
func Sort(records []models.BookRecord, mode Mode) []models.BookRecord {
	out := slices.Clone(records)
	switch mode {
	case RatingDesc:
		slices.SortStableFunc(out, func(a, b models.BookRecord) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case RatingAsc:
		slices.SortStableFunc(out, func(a, b models.BookRecord) int {
			return cmp.Compare(a.Rating, b.Rating)
		})
	case DateDesc:
		slices.SortStableFunc(out, func(a, b models.BookRecord) int {
			return compareDates(b, a)
		})
	}
	return out
}

// compareDates orders by acquisition date with invalid dates oldest.
func compareDates(a, b models.BookRecord) int {
	switch {
	case !a.HasDate() && !b.HasDate():
		return 0
	case !a.HasDate():
		return -1
	case !b.HasDate():
		return 1
	}
	return a.Acquired.Compare(b.Acquired)
}
