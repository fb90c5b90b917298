// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/homepage/internal/api"
	"github.com/starford/homepage/internal/geo"
	"github.com/starford/homepage/internal/index"
	"github.com/starford/homepage/internal/library"
	"github.com/starford/homepage/internal/sse"
	"github.com/starford/homepage/internal/storage"
	"github.com/starford/homepage/internal/view"
	"github.com/starford/homepage/internal/web"
)

const (
	shutdownTimeout = 10 * time.Second
	outlineTimeout  = 15 * time.Second
	reloadThrottle  = time.Second
)

// NewLogger builds the JSON logger used by every command. Commands that own
// stdout (mcp, books) log to stderr.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLibrary opens the data directory and search index and loads every
// dataset. The returned close function releases the index.
func OpenLibrary(ctx context.Context, cfg *Config, logger *slog.Logger) (*library.Service, *index.DB, storage.Provider, func(), error) {
	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Data.Path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init index: %w", err)
	}

	lib := library.NewService(store, db, cfg.Data.Files(), logger)
	if err := lib.Load(ctx); err != nil {
		db.Close()
		return nil, nil, nil, nil, fmt.Errorf("load library: %w", err)
	}
	return lib, db, store, func() { db.Close() }, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.httpClient == nil {
		app.httpClient = &http.Client{Timeout: outlineTimeout}
	}

	cfg := app.config

	logger := NewLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_path", cfg.Data.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Any("tabs", cfg.Page.Tabs),
		slog.String("log_level", cfg.App.LogLevel.String()))

	lib, db, store, closeLib, err := OpenLibrary(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLib()

	broker := sse.NewBroker(reloadThrottle)
	defer broker.Close()

	var limiter *api.RateLimiter
	if cfg.RateLimit.Enabled() {
		limiter = api.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		defer limiter.Close()
	}

	tabs := cfg.Page.ViewTabs()
	pages, err := web.NewHandler(lib, web.Options{
		Title:      cfg.Page.Title,
		Tabs:       tabs,
		DefaultTab: view.Tab(cfg.Page.DefaultTab),
		About:      cfg.Page.About,
		Thoughts:   cfg.Page.Thoughts,
		MapWidth:   cfg.Map.Width,
		MapHeight:  cfg.Map.Height,
		// EventSource cannot send a Bearer token.
		Live: cfg.Data.Watch && !cfg.Auth.AuthEnabled(),
	}, logger)
	if err != nil {
		return err
	}

	apiRouter := api.NewRouter(lib, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, limiter)
	dataFiles := api.NewDataFileHandler(lib)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(api.PeerAddr)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", readyHandler(lib, logger))

	r.Mount("/api", apiRouter)
	r.Get("/data/{filename}", dataFiles.ServeFile)
	pages.Routes(r)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	// One-shot outline fetch; the map renders without it on failure.
	if cfg.Map.GeoURL != "" && slices.Contains(tabs, view.TabMap) {
		g.Go(func() error {
			fetchCtx, cancelFetch := context.WithTimeout(gCtx, outlineTimeout)
			defer cancelFetch()
			outline, err := geo.FetchOutline(fetchCtx, app.httpClient, cfg.Map.GeoURL)
			if err != nil {
				logger.Warn("map outline unavailable",
					slog.String("url", cfg.Map.GeoURL),
					slog.String("error", err.Error()))
				return nil
			}
			pages.SetOutline(outline)
			logger.Info("map outline loaded", slog.Int("rings", len(outline.Rings)))
			return nil
		})
	}

	if cfg.Data.Watch {
		g.Go(func() error {
			err := index.Watch(gCtx, db, store, lib, logger, func(kind, name string) {
				broker.PublishDataEvent(lib.Kind(name), kind, name)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("data watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		// Stops the watcher and any pending outline fetch.
		cancel()

		// Open event streams would otherwise hold Shutdown until the timeout.
		broker.Close()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

type readyResponse struct {
	Status   string                  `json:"status"`
	Datasets []library.DatasetStatus `json:"datasets,omitempty"`
}

// readyHandler reports 200 while the reading list is loaded, with a per
// dataset breakdown.
func readyHandler(lib *library.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := readyResponse{Status: "ok"}
		code := http.StatusOK
		datasets, err := lib.Status()
		switch {
		case err != nil:
			logger.Error("ready: dataset status", slog.String("error", err.Error()))
			resp.Status, code = "index unavailable", http.StatusServiceUnavailable
		case lib.Snapshot().BooksErr != nil:
			resp.Status, code = "books unavailable", http.StatusServiceUnavailable
		}
		resp.Datasets = datasets

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
