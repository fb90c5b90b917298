package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/homepage/internal/apperr"
	"github.com/starford/homepage/internal/library"
	"github.com/starford/homepage/internal/sorting"
)

// Handler holds API route handlers.
type Handler struct {
	lib *library.Service
}

// NewHandler creates a new Handler.
func NewHandler(lib *library.Service) *Handler {
	return &Handler{lib: lib}
}

// Books handles GET /api/books.
//
//	@Summary		List the reading list in a sort order
//	@Tags			books
//	@Produce		json
//	@Param			sort	query		string	false	"Sort mode"	Enums(rating-desc, date-desc, rating-asc)
//	@Success		200		{object}	BooksResponse
//	@Failure		503		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/books [get]
func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	mode := sorting.Default
	if s := r.URL.Query().Get("sort"); s != "" {
		// Unknown modes are passed through and keep file order.
		mode = sorting.Mode(s)
	}

	books, err := h.lib.Books(r.Context(), mode)
	if err != nil {
		writeDatasetError(w, "books", err)
		return
	}
	out := make([]BookDTO, len(books))
	for i, b := range books {
		out[i] = toBookDTO(b)
	}
	writeJSON(w, http.StatusOK, BooksResponse{Sort: mode, Next: sorting.Next(mode), Books: out})
}

// Inspiration handles GET /api/inspiration.
//
//	@Summary		List inspiration links in file order
//	@Tags			inspiration
//	@Produce		json
//	@Success		200	{object}	InspirationResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/inspiration [get]
func (h *Handler) Inspiration(w http.ResponseWriter, r *http.Request) {
	links, err := h.lib.Inspiration(r.Context())
	if err != nil {
		writeDatasetError(w, "inspiration", err)
		return
	}
	writeJSON(w, http.StatusOK, InspirationResponse{Links: links})
}

// Coordinates handles GET /api/coordinates.
//
//	@Summary		List map coordinates
//	@Tags			map
//	@Produce		json
//	@Success		200	{object}	CoordinatesResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/coordinates [get]
func (h *Handler) Coordinates(w http.ResponseWriter, r *http.Request) {
	coords, err := h.lib.Coordinates(r.Context())
	if err != nil {
		writeDatasetError(w, "coordinates", err)
		return
	}
	writeJSON(w, http.StatusOK, CoordinatesResponse{Coordinates: coords})
}

// SortModes handles GET /api/sort-modes.
//
//	@Summary		Describe the sort cycle
//	@Tags			books
//	@Produce		json
//	@Success		200	{object}	SortModesResponse
//	@Security		BearerAuth
//	@Router			/sort-modes [get]
func (h *Handler) SortModes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sortModes())
}

// Search handles GET /api/search.
//
//	@Summary		Search books and inspiration links
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.lib.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func writeDatasetError(w http.ResponseWriter, dataset string, err error) {
	if errors.Is(err, apperr.ErrUnavailable) {
		writeJSON(w, http.StatusServiceUnavailable, errorBody(dataset+" unavailable"))
		return
	}
	slog.Error("dataset read failed", slog.String("dataset", dataset), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}
