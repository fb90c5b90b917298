package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/homepage/internal/apperr"
	"github.com/starford/homepage/internal/checksum"
	"github.com/starford/homepage/internal/library"
)

// DataFileHandler serves raw CSV files from the data directory.
type DataFileHandler struct {
	lib *library.Service
}

// NewDataFileHandler creates a handler backed by lib.
func NewDataFileHandler(lib *library.Service) *DataFileHandler {
	return &DataFileHandler{lib: lib}
}

// safeName validates that name is a plain file name with no separators and
// no traversal.
func safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	return cleaned, nil
}

// ServeFile handles GET /data/{filename}. Responses carry an ETag so
// conditional requests return 304.
func (h *DataFileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name, err := safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := h.lib.ReadFile(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("read data file failed", slog.String("file", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", checksum.ETag(data))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
}
