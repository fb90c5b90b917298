package render

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/starford/homepage/internal/models"
	"github.com/starford/homepage/internal/normalize"
)

func TestGlyphs_AlwaysFiveSlots(t *testing.T) {
	cases := []struct {
		rating float64
		filled int
	}{
		{0, 0},
		{3, 3},
		{5, 5},
		{7, 5},
		{4.9, 4},
		{-1, 0},
	}
	for _, c := range cases {
		filled, empty := Glyphs(c.rating)
		if filled != c.filled {
			t.Errorf("Glyphs(%v) filled = %d, want %d", c.rating, filled, c.filled)
		}
		if filled+empty != GlyphSlots {
			t.Errorf("Glyphs(%v) slots = %d, want %d", c.rating, filled+empty, GlyphSlots)
		}
		if n := utf8.RuneCountInString(GlyphBar(c.rating)); n != GlyphSlots {
			t.Errorf("GlyphBar(%v) has %d glyphs", c.rating, n)
		}
	}
}

func TestGlyphBar_EmptyRatingRow(t *testing.T) {
	b := normalize.Book(models.Row{"title": "A", "rating": ""})
	if got := GlyphBar(b.Rating); got != "☆☆☆☆☆" {
		t.Errorf("bar = %q, want five empty glyphs", got)
	}
}

func TestMonth(t *testing.T) {
	if got := Month(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)); got != "2023-05" {
		t.Errorf("Month = %q, want 2023-05", got)
	}
	if got := Month(time.Time{}); got != UnknownDate {
		t.Errorf("Month(zero) = %q, want %q", got, UnknownDate)
	}
}

func TestBookList_PlaceholdersAndStatus(t *testing.T) {
	records := []models.BookRecord{
		{Title: "Dune", Author: "Herbert", Status: "reading", Rating: 5},
		{Rating: 2},
	}
	var sb strings.Builder
	if err := BookList(&sb, records); err != nil {
		t.Fatalf("BookList: %v", err)
	}
	out := sb.String()

	if strings.Count(out, "<li>") != 2 {
		t.Errorf("expected 2 items:\n%s", out)
	}
	if strings.Count(out, `class="book-status"`) != 1 {
		t.Errorf("status should render only when present:\n%s", out)
	}
	for _, want := range []string{UnknownTitle, UnknownAuthor, UnknownDate, "★★★★★", "★★☆☆☆"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Dune") > strings.Index(out, UnknownTitle) {
		t.Error("items not in input order")
	}
	if strings.Contains(out, "NaN") {
		t.Error("output contains NaN")
	}
}

func TestBookList_EscapesText(t *testing.T) {
	var sb strings.Builder
	_ = BookList(&sb, []models.BookRecord{{Title: "<script>alert(1)</script>"}})
	if strings.Contains(sb.String(), "<script>") {
		t.Errorf("title not escaped:\n%s", sb.String())
	}
}

func TestInspirationList_Defaults(t *testing.T) {
	var sb strings.Builder
	err := InspirationList(&sb, []models.InspirationRecord{
		{URL: "https://go.dev", Notes: "language"},
		{},
	})
	if err != nil {
		t.Fatalf("InspirationList: %v", err)
	}
	out := sb.String()
	for _, want := range []string{`href="https://go.dev"`, `href="#"`, UnknownURL, UnknownNotes} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBooksSection_EmptyState(t *testing.T) {
	html, err := BooksSection(nil, SortControl{Href: "?sort=date-desc", Label: "Date", Mode: "date-desc"}, errors.New("fetch failed"))
	if err != nil {
		t.Fatalf("BooksSection: %v", err)
	}
	s := string(html)
	if !strings.Contains(s, "could not be loaded") {
		t.Errorf("missing empty-state message:\n%s", s)
	}
	if !strings.Contains(s, `id="sort-button"`) || !strings.Contains(s, ">Date<") {
		t.Errorf("missing sort control:\n%s", s)
	}
}

func TestPage_OneVisibleSection(t *testing.T) {
	var sb strings.Builder
	err := Page(&sb, PageData{
		Title: "Home",
		Tabs: []TabLink{
			{Name: "about", Label: "About", Href: "/?tab=about"},
			{Name: "books", Label: "Books", Href: "/?tab=books", Active: true},
		},
		Sections: []Section{
			{Name: "about", Body: "a"},
			{Name: "books", Visible: true, Body: "b"},
		},
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	out := sb.String()
	if strings.Count(out, "tab-content active") != 1 {
		t.Errorf("expected one visible section:\n%s", out)
	}
	if strings.Count(out, "tab-link active") != 1 {
		t.Errorf("expected one active tab:\n%s", out)
	}
}

func TestBookTable(t *testing.T) {
	out := BookTable("Reading list", []models.BookRecord{{Title: "Dune", Rating: 4}}, DefaultTerminalStyles())
	for _, want := range []string{"Reading list", "Dune", UnknownAuthor, "★★★★☆"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	empty := BookTable("", nil, DefaultTerminalStyles())
	if !strings.Contains(empty, "(no books)") {
		t.Errorf("empty table = %q", empty)
	}
}
