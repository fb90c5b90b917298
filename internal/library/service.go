// Package library owns the loaded reading list, inspiration links and map
// coordinates, and keeps them in step with the data directory.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/starford/homepage/internal/apperr"
	"github.com/starford/homepage/internal/checksum"
	"github.com/starford/homepage/internal/index"
	"github.com/starford/homepage/internal/models"
	"github.com/starford/homepage/internal/normalize"
	"github.com/starford/homepage/internal/parser"
	"github.com/starford/homepage/internal/sorting"
	"github.com/starford/homepage/internal/storage"
)

// Dataset kinds.
const (
	KindBooks       = "books"
	KindInspiration = "inspiration"
	KindCoordinates = "coordinates"
	KindOther       = "other"
)

// Files names the data files backing each dataset.
type Files struct {
	Books       string
	Inspiration string
	Coordinates string
}

// Snapshot is an immutable view of every dataset. A dataset that failed to
// load carries its error and no records.
type Snapshot struct {
	Books          []models.BookRecord
	BooksErr       error
	Inspiration    []models.InspirationRecord
	InspirationErr error
	Coordinates    []models.Coordinate
	CoordinatesErr error
}

// Service coordinates storage, normalization and the search index.
type Service struct {
	store  storage.Provider
	db     *index.DB
	files  Files
	logger *slog.Logger

	mu   sync.Mutex // serializes snapshot writers
	snap atomic.Pointer[Snapshot]
}

// NewService creates a library with every dataset marked not yet loaded.
func NewService(store storage.Provider, db *index.DB, files Files, logger *slog.Logger) *Service {
	s := &Service{store: store, db: db, files: files, logger: logger}
	notLoaded := fmt.Errorf("library: not loaded: %w", apperr.ErrUnavailable)
	s.snap.Store(&Snapshot{BooksErr: notLoaded, InspirationErr: notLoaded, CoordinatesErr: notLoaded})
	return s
}

// Kind reports which dataset the named file backs.
func (s *Service) Kind(name string) string {
	switch name {
	case s.files.Books:
		return KindBooks
	case s.files.Inspiration:
		return KindInspiration
	case s.files.Coordinates:
		return KindCoordinates
	}
	return KindOther
}

// Load reads every configured dataset and then syncs the index with the rest
// of the data directory. A dataset that cannot be read is recorded as
// unavailable; Load itself only fails when the index cannot be synced.
func (s *Service) Load(ctx context.Context) error {
	names := []string{s.files.Books, s.files.Inspiration, s.files.Coordinates}
	contents := make([][]byte, len(names))
	readErrs := make([]error, len(names))

	g, _ := errgroup.WithContext(ctx)
	for i, name := range names {
		if name == "" {
			continue
		}
		g.Go(func() error {
			contents[i], readErrs[i] = s.store.Read(name)
			return nil
		})
	}
	_ = g.Wait()

	for i, name := range names {
		if name == "" {
			continue
		}
		if readErrs[i] != nil {
			s.logger.Warn("library: dataset unavailable",
				slog.String("file", name),
				slog.String("error", readErrs[i].Error()))
			s.setErr(s.Kind(name), unavailable(name, readErrs[i]))
			continue
		}
		if err := s.IndexFile(name, contents[i]); err != nil {
			s.logger.Warn("library: dataset failed to load",
				slog.String("file", name),
				slog.String("error", err.Error()))
		}
	}

	if _, err := index.Sync(s.db, s.store, s, s.logger); err != nil {
		return fmt.Errorf("library: sync index: %w", err)
	}
	return nil
}

// IndexFile parses data from the named file, swaps it into the snapshot and
// records it in the index. Exported so sync and the watcher can reuse it.
func (s *Service) IndexFile(name string, data []byte) error {
	cs := checksum.Sum(data)

	switch s.Kind(name) {
	case KindBooks:
		rows, err := parser.ParseRows(data)
		if err != nil {
			s.setErr(KindBooks, unavailable(name, err))
			return err
		}
		books := normalize.Books(rows)
		if err := s.db.ReplaceBooks(name, cs, books); err != nil {
			return err
		}
		s.update(func(n *Snapshot) { n.Books, n.BooksErr = books, nil })

	case KindInspiration:
		rows, err := parser.ParseRows(data)
		if err != nil {
			s.setErr(KindInspiration, unavailable(name, err))
			return err
		}
		links := normalize.Inspirations(rows)
		if err := s.db.ReplaceInspirations(name, cs, links); err != nil {
			return err
		}
		s.update(func(n *Snapshot) { n.Inspiration, n.InspirationErr = links, nil })

	case KindCoordinates:
		coords, err := parser.ParseCoordinates(data)
		if err != nil {
			s.setErr(KindCoordinates, unavailable(name, err))
			return err
		}
		if err := s.db.RecordFile(name, cs); err != nil {
			return err
		}
		s.update(func(n *Snapshot) { n.Coordinates, n.CoordinatesErr = coords, nil })

	default:
		return s.db.RecordFile(name, cs)
	}
	return nil
}

// RemoveFile drops the named file from the index and, for a configured
// dataset, marks it unavailable. A configured dataset that the store can
// still read is kept, since sync only lists flat .csv files.
func (s *Service) RemoveFile(name string) error {
	if s.Kind(name) != KindOther {
		if _, err := s.store.Read(name); err == nil {
			return nil
		}
	}
	if err := s.db.DeleteFile(name); err != nil {
		return err
	}
	if kind := s.Kind(name); kind != KindOther {
		s.setErr(kind, unavailable(name, os.ErrNotExist))
	}
	return nil
}

// Snapshot returns the current datasets. Callers must not modify it.
func (s *Service) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Books returns the reading list ordered by mode.
func (s *Service) Books(_ context.Context, mode sorting.Mode) ([]models.BookRecord, error) {
	snap := s.snap.Load()
	if snap.BooksErr != nil {
		return nil, snap.BooksErr
	}
	return nonNilSlice(sorting.Sort(snap.Books, mode)), nil
}

// Inspiration returns the inspiration links in file order.
func (s *Service) Inspiration(_ context.Context) ([]models.InspirationRecord, error) {
	snap := s.snap.Load()
	if snap.InspirationErr != nil {
		return nil, snap.InspirationErr
	}
	return nonNilSlice(snap.Inspiration), nil
}

// Coordinates returns the map coordinates in file order.
func (s *Service) Coordinates(_ context.Context) ([]models.Coordinate, error) {
	snap := s.snap.Load()
	if snap.CoordinatesErr != nil {
		return nil, snap.CoordinatesErr
	}
	return nonNilSlice(snap.Coordinates), nil
}

// Search delegates to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(results), nil
}

// ReadFile returns the raw content of a data file.
func (s *Service) ReadFile(_ context.Context, name string) ([]byte, error) {
	if !storage.IsDataFile(name) {
		return nil, apperr.ErrNotFound
	}
	data, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Service) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.snap.Load()
	fn(&next)
	s.snap.Store(&next)
}

func (s *Service) setErr(kind string, err error) {
	s.update(func(n *Snapshot) {
		switch kind {
		case KindBooks:
			n.Books, n.BooksErr = nil, err
		case KindInspiration:
			n.Inspiration, n.InspirationErr = nil, err
		case KindCoordinates:
			n.Coordinates, n.CoordinatesErr = nil, err
		}
	})
}

func unavailable(name string, cause error) error {
	return fmt.Errorf("library: %s: %w (%w)", name, apperr.ErrUnavailable, cause)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
