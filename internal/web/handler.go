// Package web serves the server-rendered homepage and its list fragments.
package web

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/starford/homepage/internal/geo"
	"github.com/starford/homepage/internal/library"
	"github.com/starford/homepage/internal/render"
	"github.com/starford/homepage/internal/sorting"
	"github.com/starford/homepage/internal/view"
)

// Options configures the page.
type Options struct {
	Title      string
	Tabs       []view.Tab
	DefaultTab view.Tab
	About      string
	Thoughts   string
	MapWidth   int
	MapHeight  int
	// Live adds the EventSource hook that reloads the page on data changes.
	Live bool
}

// Handler renders pages from the current library snapshot.
type Handler struct {
	lib     *library.Service
	opts    Options
	logger  *slog.Logger
	outline atomic.Pointer[geo.Outline]
}

// NewHandler checks that the tab configuration is usable and returns a
// handler.
func NewHandler(lib *library.Service, opts Options, logger *slog.Logger) (*Handler, error) {
	if _, err := view.New(opts.Tabs, opts.DefaultTab); err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	if opts.MapWidth <= 0 {
		opts.MapWidth = 960
	}
	if opts.MapHeight <= 0 {
		opts.MapHeight = 480
	}
	return &Handler{lib: lib, opts: opts, logger: logger}, nil
}

// SetOutline installs the map background. Safe to call while serving.
func (h *Handler) SetOutline(o geo.Outline) {
	h.outline.Store(&o)
}

// Routes mounts the page and fragment endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Page)
	r.Get("/fragments/books", h.BooksFragment)
	r.Get("/fragments/inspiration", h.InspirationFragment)
}

// Page handles GET /. View state comes from the tab, sort and marker query
// parameters; unknown values fall back to the defaults.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	state, err := view.FromQuery(h.opts.Tabs, h.opts.DefaultTab, r.URL.Query())
	if err != nil {
		h.fail(w, "build view state", err)
		return
	}

	data := render.PageData{Title: h.opts.Title, Live: h.opts.Live}
	for _, l := range state.TabLinks() {
		data.Tabs = append(data.Tabs, render.TabLink{
			Name:   string(l.Tab),
			Label:  l.Tab.Label(),
			Href:   l.Href,
			Active: l.Active,
		})
	}
	for _, s := range state.Sections() {
		body, err := h.section(r, state, s.Tab)
		if err != nil {
			h.fail(w, "render section "+string(s.Tab), err)
			return
		}
		data.Sections = append(data.Sections, render.Section{Name: string(s.Tab), Visible: s.Visible, Body: body})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, data); err != nil {
		h.logger.Error("render page failed", slog.String("error", err.Error()))
	}
}

// BooksFragment handles GET /fragments/books: the sort control and the book
// list for the requested mode.
func (h *Handler) BooksFragment(w http.ResponseWriter, r *http.Request) {
	state, err := view.New(h.opts.Tabs, h.opts.DefaultTab)
	if err != nil {
		h.fail(w, "build view state", err)
		return
	}
	state.Apply(r.URL.Query())
	body, err := h.books(r, state)
	if err != nil {
		h.fail(w, "render books", err)
		return
	}
	writeHTML(w, body)
}

// InspirationFragment handles GET /fragments/inspiration.
func (h *Handler) InspirationFragment(w http.ResponseWriter, r *http.Request) {
	links, loadErr := h.lib.Inspiration(r.Context())
	body, err := render.InspirationSection(links, loadErr)
	if err != nil {
		h.fail(w, "render inspiration", err)
		return
	}
	writeHTML(w, body)
}

func (h *Handler) section(r *http.Request, state *view.State, tab view.Tab) (template.HTML, error) {
	switch tab {
	case view.TabBooks:
		return h.books(r, state)
	case view.TabInspiration:
		links, loadErr := h.lib.Inspiration(r.Context())
		return render.InspirationSection(links, loadErr)
	case view.TabMap:
		return render.MapSection(h.mapView(r, state))
	case view.TabAbout:
		return render.TextSection(h.opts.About)
	case view.TabThoughts:
		return render.TextSection(h.opts.Thoughts)
	}
	return "", nil
}

func (h *Handler) books(r *http.Request, state *view.State) (template.HTML, error) {
	records, loadErr := h.lib.Books(r.Context(), state.SortMode)
	control := render.SortControl{
		Href:  state.SortURL(),
		Label: state.SortButtonLabel(),
		Mode:  string(sorting.Next(state.SortMode)),
	}
	return render.BooksSection(records, control, loadErr)
}

func (h *Handler) mapView(r *http.Request, state *view.State) render.MapView {
	mv := render.MapView{Width: h.opts.MapWidth, Height: h.opts.MapHeight}
	proj := geo.Projection{Width: float64(mv.Width), Height: float64(mv.Height)}
	if o := h.outline.Load(); o != nil {
		mv.Outline = o.Path(proj)
	}

	coords, err := h.lib.Coordinates(r.Context())
	if err != nil {
		mv.Message = "Map coordinates could not be loaded."
		return mv
	}
	points := geo.ProjectAll(proj, coords)
	for _, p := range points {
		mv.Points = append(mv.Points, render.MapPoint{X: p.X, Y: p.Y, Code: p.Code})
	}
	if i := geo.MarkerIndex(state.Marker, len(points)); i >= 0 {
		mv.Marker = &mv.Points[i]
		mv.AdvanceHref = state.MarkerURL(geo.NextMarker(state.Marker, len(points)))
	}
	return mv
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error("web: "+op+" failed", slog.String("error", err.Error()))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
