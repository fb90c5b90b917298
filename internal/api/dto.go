package api

import (
	"github.com/starford/homepage/internal/index"
	"github.com/starford/homepage/internal/models"
	"github.com/starford/homepage/internal/render"
	"github.com/starford/homepage/internal/sorting"
)

// BookDTO is one reading-list entry with its display projection.
type BookDTO struct {
	Title    string  `json:"title" example:"Dune" validate:"required"`
	Author   string  `json:"author" example:"Frank Herbert"`
	Status   string  `json:"status,omitempty" example:"reading"`
	Rating   float64 `json:"rating" example:"5"`
	Acquired string  `json:"acquired,omitempty" example:"2021-03-14"`
	Month    string  `json:"month" example:"2021-03" validate:"required"`
	Glyphs   string  `json:"glyphs" example:"★★★★★" validate:"required"`
}

// BooksResponse wraps the sorted reading list.
type BooksResponse struct {
	Sort  sorting.Mode `json:"sort" example:"rating-desc" validate:"required"`
	Next  sorting.Mode `json:"next" example:"date-desc" validate:"required"`
	Books []BookDTO    `json:"books" validate:"required"`
}

// InspirationResponse wraps the inspiration links.
type InspirationResponse struct {
	Links []models.InspirationRecord `json:"links" validate:"required"`
}

// CoordinatesResponse wraps the map coordinates.
type CoordinatesResponse struct {
	Coordinates []models.Coordinate `json:"coordinates" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// SortModeDTO is one entry of the sort cycle.
type SortModeDTO struct {
	Mode  sorting.Mode `json:"mode" example:"rating-desc" validate:"required"`
	Label string       `json:"label" example:"Rating" validate:"required"`
	Next  sorting.Mode `json:"next" example:"date-desc" validate:"required"`
}

// SortModesResponse lists the sort cycle in order.
type SortModesResponse struct {
	Default sorting.Mode  `json:"default" example:"rating-desc" validate:"required"`
	Modes   []SortModeDTO `json:"modes" validate:"required"`
}

func toBookDTO(b models.BookRecord) BookDTO {
	item := render.Book(b)
	dto := BookDTO{
		Title:  b.Title,
		Author: b.Author,
		Status: b.Status,
		Rating: b.Rating,
		Month:  item.Month,
		Glyphs: item.Filled + item.Empty,
	}
	if b.HasDate() {
		dto.Acquired = b.Acquired.Format("2006-01-02")
	}
	return dto
}

func sortModes() SortModesResponse {
	modes := sorting.Modes()
	out := make([]SortModeDTO, len(modes))
	for i, m := range modes {
		out[i] = SortModeDTO{Mode: m, Label: sorting.Label(m), Next: sorting.Next(m)}
	}
	return SortModesResponse{Default: sorting.Default, Modes: out}
}
