package render

import (
	"html/template"
	"io"

	"github.com/starford/homepage/internal/models"
)

// TabLink is one tab control in the navigation bar.
type TabLink struct {
	Name   string
	Label  string
	Href   string
	Active bool
}

// Section is one tab body. Exactly one section of a page is visible.
type Section struct {
	Name    string
	Visible bool
	Body    template.HTML
}

// PageData is passed to the page template.
type PageData struct {
	Title    string
	Tabs     []TabLink
	Sections []Section
	Live     bool
}

// SortControl describes the sort button: it links to the next mode and is
// labelled with that mode's name.
type SortControl struct {
	Href  string
	Label string
	Mode  string
}

// MapPoint is a projected marker position in SVG user units.
type MapPoint struct {
	X, Y float64
	Code string
}

// MapView is the data behind the map section.
type MapView struct {
	Width       int
	Height      int
	Outline     string
	Points      []MapPoint
	Marker      *MapPoint
	AdvanceHref string
	Message     string
}

// Page writes the whole document.
func Page(w io.Writer, data PageData) error {
	return templates.ExecuteTemplate(w, "page", data)
}

// BooksSection renders the sort control followed by the book list. When
// loadErr is non-nil an empty-state message replaces the list.
func BooksSection(records []models.BookRecord, control SortControl, loadErr error) (template.HTML, error) {
	list, err := fragment(func(w io.Writer) error {
		if loadErr != nil {
			return Unavailable(w, "book-list", "The reading list could not be loaded.")
		}
		return BookList(w, records)
	})
	if err != nil {
		return "", err
	}
	return fragment(func(w io.Writer) error {
		return templates.ExecuteTemplate(w, "books-section", struct {
			Sort SortControl
			List template.HTML
		}{control, list})
	})
}

// InspirationSection renders the inspiration list or its empty state.
func InspirationSection(records []models.InspirationRecord, loadErr error) (template.HTML, error) {
	return fragment(func(w io.Writer) error {
		if loadErr != nil {
			return Unavailable(w, "inspiration-list", "Inspiration links could not be loaded.")
		}
		return InspirationList(w, records)
	})
}

// MapSection renders the decorative map.
func MapSection(view MapView) (template.HTML, error) {
	return fragment(func(w io.Writer) error {
		return templates.ExecuteTemplate(w, "map-section", view)
	})
}

// TextSection renders a static prose section such as "about".
func TextSection(text string) (template.HTML, error) {
	return fragment(func(w io.Writer) error {
		return templates.ExecuteTemplate(w, "text-section", text)
	})
}

var templates = template.Must(template.New("render").Parse(`
{{define "book-list"}}<ul id="book-list" class="book-list">
{{- range .}}
<li>
  <div class="book-info">
    <div class="book-title">{{.Title}}</div>
    <div class="book-author">{{.Author}}</div>
    {{- if .Status}}
    <div class="book-status">{{.Status}}</div>
    {{- end}}
  </div>
  <div class="book-meta">
    <div class="book-rating">{{.Filled}}{{.Empty}}</div>
    <div class="book-date">{{.Month}}</div>
  </div>
</li>
{{- end}}
</ul>{{end}}

{{define "inspiration-list"}}<ul id="inspiration-list" class="inspiration-list">
{{- range .}}
<li>
  <a class="inspiration-url" href="{{.Href}}" rel="noopener">{{.Text}}</a>
  <div class="inspiration-notes">{{.Notes}}</div>
</li>
{{- end}}
</ul>{{end}}

{{define "unavailable"}}<div id="{{.ID}}" class="empty-state" role="status">{{.Message}}</div>{{end}}

{{define "books-section"}}<div class="sort-bar">
  <a id="sort-button" class="sort-button" href="{{.Sort.Href}}" data-sort-value="{{.Sort.Mode}}">{{.Sort.Label}}</a>
</div>
{{.List}}{{end}}

{{define "map-section"}}
{{- if .Message}}<div class="empty-state" role="status">{{.Message}}</div>{{end}}
<svg id="map" viewBox="0 0 {{.Width}} {{.Height}}" width="{{.Width}}" height="{{.Height}}" role="img">
  {{- if .Outline}}
  <path class="map-outline" d="{{.Outline}}"/>
  {{- end}}
  {{- range .Points}}
  <circle class="map-point" cx="{{printf "%.1f" .X}}" cy="{{printf "%.1f" .Y}}" r="2"><title>{{.Code}}</title></circle>
  {{- end}}
  {{- with .Marker}}
  <circle id="map-marker" class="map-marker" cx="{{printf "%.1f" .X}}" cy="{{printf "%.1f" .Y}}" r="6"><title>{{.Code}}</title></circle>
  {{- end}}
</svg>
{{- if .AdvanceHref}}
<a id="advance-marker" class="advance-marker" href="{{.AdvanceHref}}">Next</a>
{{- end}}
{{end}}

{{define "text-section"}}<p>{{.}}</p>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
.tab-content { display: none; }
.tab-content.active { display: block; }
.tab-link.active { font-weight: bold; }
</style>
</head>
<body>
<nav class="tabs">
{{- range .Tabs}}
  <a id="{{.Name}}-link" class="tab-link{{if .Active}} active{{end}}" href="{{.Href}}">{{.Label}}</a>
{{- end}}
</nav>
{{- range .Sections}}
<section id="{{.Name}}" class="tab-content{{if .Visible}} active{{end}}"{{if not .Visible}} hidden{{end}}>
{{.Body}}
</section>
{{- end}}
{{- if .Live}}
<script>new EventSource("/api/events").addEventListener("page.reload", () => location.reload());</script>
{{- end}}
</body>
</html>
{{end}}
`))
