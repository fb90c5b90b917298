package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/homepage/internal/library"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced. sseHandler,
// if non-nil, is mounted at GET /events behind the same auth. limiter, if
// non-nil, throttles every route except /events.
func NewRouter(lib *library.Service, authEnabled bool, token string, sseHandler http.Handler, limiter *RateLimiter) chi.Router {
	h := NewHandler(lib)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Get("/books", h.Books)
		r.Get("/inspiration", h.Inspiration)
		r.Get("/coordinates", h.Coordinates)
		r.Get("/sort-modes", h.SortModes)
		r.Get("/search", h.Search)
	})

	// Long-lived streams are not rate limited.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
