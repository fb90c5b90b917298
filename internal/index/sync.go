package index

import (
	"log/slog"

	"github.com/starford/homepage/internal/storage"
)

// Indexer loads one data file into memory and into the index.
type Indexer interface {
	// IndexFile normalizes data read from the named file and records it.
	IndexFile(name string, data []byte) error
	// RemoveFile forgets everything loaded from the named file.
	RemoveFile(name string) error
}

// Sync walks the data directory and brings the index up to date:
//   - new/changed files are handed to ix
//   - files removed from disk are removed through ix
//
// It reports the file names it changed.
func Sync(db *DB, store storage.Provider, ix Indexer, logger *slog.Logger) (changed []string, err error) {
	metas, err := store.List()
	if err != nil {
		return nil, err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return nil, err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Name] = struct{}{}

		if checksums[m.Name] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Name)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("file", m.Name), slog.String("error", err.Error()))
			continue
		}
		if err := ix.IndexFile(m.Name, data); err != nil {
			logger.Warn("sync: index failed", slog.String("file", m.Name), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: indexed", slog.String("file", m.Name))
		changed = append(changed, m.Name)
	}

	// Remove stale entries.
	for name := range checksums {
		if _, ok := disk[name]; ok {
			continue
		}
		if err := ix.RemoveFile(name); err != nil {
			logger.Warn("sync: remove failed", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: removed stale", slog.String("file", name))
		changed = append(changed, name)
	}

	return changed, nil
}
