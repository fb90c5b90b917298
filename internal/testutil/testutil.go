// Package testutil provides shared test helpers for data directories,
// databases and loaded libraries.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/homepage/internal/index"
	"github.com/starford/homepage/internal/library"
	"github.com/starford/homepage/internal/storage"
)

// Sample data file contents.
const (
	BooksCSV = `Title,Author,Status,Rating,Date
Dune,Frank Herbert,,5,2021-03-14
Piranesi,Susanna Clarke,reading,4,2024-01-01
Hyperion,Dan Simmons,,4,2023-05-01
Untitled,,,,
`
	InspirationCSV = `URL,Notes
https://go.dev,The Go programming language
,Untitled idea
`
	CoordinatesCSV = `52.52,13.405,BER
35.68,139.69,TYO
-33.87,151.21,SYD
`
)

// Files is the dataset layout used by the sample data.
var Files = library.Files{
	Books:       "books.csv",
	Inspiration: "inspiration.csv",
	Coordinates: "coordinates.csv",
}

// SampleData returns the standard data directory contents.
func SampleData() map[string]string {
	return map[string]string{
		Files.Books:       BooksCSV,
		Files.Inspiration: InspirationCSV,
		Files.Coordinates: CoordinatesCSV,
	}
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "homepage-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary data directory holding files and returns
// it with a storage.Provider.
func TestDataDir(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestLibrary builds and loads a library over files.
func TestLibrary(t *testing.T, files map[string]string) (*library.Service, *index.DB, string) {
	t.Helper()
	dir, store := TestDataDir(t, files)
	db := TestDB(t)
	lib := library.NewService(store, db, Files, Logger())
	if err := lib.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return lib, db, dir
}
