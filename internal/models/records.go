// Package models defines the domain types for the homepage.
package models

import "time"

// Row is one parsed CSV line keyed by its trimmed, lower-cased header names.
type Row map[string]string

// BookRecord is one normalized reading-list entry.
//
// Title, Author and Status stay empty when absent; placeholders are applied
// at render time. Acquired is the zero time when the date could not be parsed.
type BookRecord struct {
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Status   string    `json:"status,omitempty"`
	Rating   float64   `json:"rating"`
	Acquired time.Time `json:"acquired"`
}

// HasDate reports whether Acquired holds a parsed calendar date.
func (b BookRecord) HasDate() bool {
	return !b.Acquired.IsZero()
}

// InspirationRecord is one normalized inspiration link.
type InspirationRecord struct {
	URL   string `json:"url,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Coordinate is one marker position from coordinates.csv.
type Coordinate struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Code string  `json:"code"`
}

// FileMetadata describes a data file in the data directory.
type FileMetadata struct {
	Name      string    `json:"name"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
