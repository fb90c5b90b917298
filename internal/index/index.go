package index

import "github.com/starford/homepage/internal/models"

// RecordIndex defines the interface for data-file indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type.
type RecordIndex interface {
	ReplaceBooks(file, checksum string, books []models.BookRecord) error
	ReplaceInspirations(file, checksum string, links []models.InspirationRecord) error
	RecordFile(name, checksum string) error
	DeleteFile(name string) error
	GetChecksum(name string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies RecordIndex at compile time.
var _ RecordIndex = (*DB)(nil)
