package index

import (
	"os"
	"testing"
	"time"

	"github.com/starford/homepage/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "homepage-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleBooks() []models.BookRecord {
	return []models.BookRecord{
		{Title: "Dune", Author: "Frank Herbert", Rating: 5, Acquired: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Hyperion", Author: "Dan Simmons", Status: "reading", Rating: 4},
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"files", "books", "inspirations"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestReplaceBooksAndChecksum(t *testing.T) {
	db := testDB(t)
	if err := db.ReplaceBooks("books.csv", "abc123", sampleBooks()); err != nil {
		t.Fatalf("ReplaceBooks: %v", err)
	}
	cs, err := db.GetChecksum("books.csv")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want abc123", cs)
	}
	n, _ := db.BookCount("books.csv")
	if n != 2 {
		t.Errorf("book count = %d, want 2", n)
	}
}

func TestReplaceBooksReplaces(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceBooks("books.csv", "1", sampleBooks())
	_ = db.ReplaceBooks("books.csv", "2", sampleBooks()[:1])

	n, _ := db.BookCount("books.csv")
	if n != 1 {
		t.Errorf("book count = %d, want 1", n)
	}
	cs, _ := db.GetChecksum("books.csv")
	if cs != "2" {
		t.Errorf("checksum = %q, want 2", cs)
	}
}

func TestDeleteFile(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceBooks("books.csv", "x", sampleBooks())

	if err := db.DeleteFile("books.csv"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	cs, _ := db.GetChecksum("books.csv")
	if cs != "" {
		t.Errorf("deleted file still has checksum %q", cs)
	}
	n, _ := db.BookCount("books.csv")
	if n != 0 {
		t.Errorf("book count = %d after delete", n)
	}
}

func TestRecordFileAndAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.RecordFile("coordinates.csv", "c1")
	_ = db.ReplaceInspirations("inspiration.csv", "i1", []models.InspirationRecord{{URL: "https://go.dev"}})

	all, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(all) != 2 || all["coordinates.csv"] != "c1" || all["inspiration.csv"] != "i1" {
		t.Errorf("checksums = %v", all)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestSearch_BooksAndLinks(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceBooks("books.csv", "1", sampleBooks())
	_ = db.ReplaceInspirations("inspiration.csv", "2", []models.InspirationRecord{
		{URL: "https://example.com/dune-maps", Notes: "fan cartography"},
	})

	results, err := db.Search("Dune", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2 hits", results)
	}
	kinds := map[string]bool{}
	for _, r := range results {
		kinds[r.Kind] = true
	}
	if !kinds[KindBook] || !kinds[KindInspiration] {
		t.Errorf("kinds = %v", kinds)
	}
}
