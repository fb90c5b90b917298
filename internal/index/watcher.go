package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/homepage/internal/storage"
)

// reconcileDelay debounces reconciliation after renames and bursts of writes.
const reconcileDelay = 200 * time.Millisecond

// Event kinds passed to EventCallback.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventCallback is called after a watcher-driven reload of a data file.
// kind is one of EventCreated, EventUpdated, EventDeleted.
type EventCallback func(kind string, name string)

// Watch starts an fsnotify watcher on the data directory and reloads data
// files through ix until ctx is cancelled. It calls cb (if non-nil) after
// each successful reload.
//
// Editors commonly save by writing a temp file and renaming it over the
// original; rename events therefore trigger a debounced reconciliation pass
// instead of an immediate reload.
func Watch(ctx context.Context, db *DB, store storage.Provider, ix Indexer, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := store.Root()
	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, ix, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !storage.IsDataFile(ev.Name) {
				continue
			}
			name := filepath.Base(ev.Name)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(name)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("file", name), slog.String("error", readErr.Error()))
					scheduleReconcile()
					continue
				}
				if idxErr := ix.IndexFile(name, data); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("file", name), slog.String("error", idxErr.Error()))
					continue
				}
				kind := EventUpdated
				if ev.Op&fsnotify.Create != 0 {
					kind = EventCreated
				}
				logger.Debug("watcher: reloaded", slog.String("file", name), slog.String("op", kind))
				if cb != nil {
					cb(kind, name)
				}

			case ev.Op&fsnotify.Remove != 0:
				if rmErr := ix.RemoveFile(name); rmErr != nil {
					logger.Warn("watcher: remove failed", slog.String("file", name), slog.String("error", rmErr.Error()))
					continue
				}
				logger.Debug("watcher: removed", slog.String("file", name))
				if cb != nil {
					cb(EventDeleted, name)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify reports Rename on the old name only; the new name
				// arrives as a Create if it stays in the directory.
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile runs a Sync pass and reports each changed file through cb.
func reconcile(db *DB, store storage.Provider, ix Indexer, logger *slog.Logger, cb EventCallback) {
	before, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	changed, err := Sync(db, store, ix, logger)
	if err != nil {
		logger.Warn("reconcile: sync failed", slog.String("error", err.Error()))
		return
	}
	if cb == nil {
		return
	}
	for _, name := range changed {
		if _, err := store.Read(name); err != nil {
			cb(EventDeleted, name)
			continue
		}
		if _, existed := before[name]; existed {
			cb(EventUpdated, name)
		} else {
			cb(EventCreated, name)
		}
	}
}
