// Package render projects ordered records into HTML and terminal output.
package render

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"
	"time"

	"github.com/starford/homepage/internal/models"
)

// Glyph bar settings.
const (
	GlyphSlots  = 5
	FilledGlyph = "★"
	EmptyGlyph  = "☆"
)

// Placeholders for absent or invalid values.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
	UnknownDate   = "Unknown date"
	UnknownURL    = "Unknown URL"
	UnknownNotes  = "Unknown notes"
	DefaultHref   = "#"
)

// BookItem is one reading-list entry prepared for display.
type BookItem struct {
	Title  string
	Author string
	Status string
	Filled string
	Empty  string
	Month  string
}

// LinkItem is one inspiration entry prepared for display.
type LinkItem struct {
	Href  string
	Text  string
	Notes string
}

// Glyphs returns how many filled and empty glyphs represent rating.
// The filled count is clamped into [0, GlyphSlots], so the two always sum
// to GlyphSlots.
func Glyphs(rating float64) (filled, empty int) {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	filled = int(math.Min(math.Floor(rating), GlyphSlots))
	return filled, GlyphSlots - filled
}

// GlyphBar renders rating as a fixed-width star bar.
func GlyphBar(rating float64) string {
	filled, empty := Glyphs(rating)
	return strings.Repeat(FilledGlyph, filled) + strings.Repeat(EmptyGlyph, empty)
}

// Month formats t as YEAR-MONTH with a zero-padded month, or UnknownDate for
// the zero time.
func Month(t time.Time) string {
	if t.IsZero() {
		return UnknownDate
	}
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// Book prepares a record for display, applying placeholders.
func Book(b models.BookRecord) BookItem {
	filled, empty := Glyphs(b.Rating)
	return BookItem{
		Title:  orDefault(b.Title, UnknownTitle),
		Author: orDefault(b.Author, UnknownAuthor),
		Status: b.Status,
		Filled: strings.Repeat(FilledGlyph, filled),
		Empty:  strings.Repeat(EmptyGlyph, empty),
		Month:  Month(b.Acquired),
	}
}

// Link prepares an inspiration record for display.
func Link(r models.InspirationRecord) LinkItem {
	return LinkItem{
		Href:  orDefault(r.URL, DefaultHref),
		Text:  orDefault(r.URL, UnknownURL),
		Notes: orDefault(r.Notes, UnknownNotes),
	}
}

// BookList writes the complete book list container, one item per record in
// the given order. The container is always rebuilt in full.
func BookList(w io.Writer, records []models.BookRecord) error {
	items := make([]BookItem, len(records))
	for i, b := range records {
		items[i] = Book(b)
	}
	return templates.ExecuteTemplate(w, "book-list", items)
}

// InspirationList writes the complete inspiration list container.
func InspirationList(w io.Writer, records []models.InspirationRecord) error {
	items := make([]LinkItem, len(records))
	for i, r := range records {
		items[i] = Link(r)
	}
	return templates.ExecuteTemplate(w, "inspiration-list", items)
}

// Unavailable writes a visible empty-state message in place of a list.
func Unavailable(w io.Writer, listID, message string) error {
	return templates.ExecuteTemplate(w, "unavailable", struct {
		ID      string
		Message string
	}{listID, message})
}

// fragment executes fn into a buffer so it can be embedded in the page.
func fragment(fn func(io.Writer) error) (template.HTML, error) {
	var sb strings.Builder
	if err := fn(&sb); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil //nolint:gosec // produced by html/template
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
