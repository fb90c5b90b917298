// Package storage defines the data-directory file-system abstraction.
package storage

import "github.com/starford/homepage/internal/models"

// Provider is the interface for data file operations.
type Provider interface {
	// List returns metadata for every .csv file directly under the data root.
	List() ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at name (relative to the data root).
	Read(name string) ([]byte, error)
	// Root returns the absolute data directory path.
	Root() string
}
