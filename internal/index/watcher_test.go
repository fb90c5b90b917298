package index

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/starford/homepage/internal/checksum"
	"github.com/starford/homepage/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingIndexer stores only checksums, enough to observe reloads.
type recordingIndexer struct {
	db *DB
}

func (r recordingIndexer) IndexFile(name string, data []byte) error {
	return r.db.RecordFile(name, checksum.Sum(data))
}

func (r recordingIndexer) RemoveFile(name string) error {
	return r.db.DeleteFile(name)
}

func watcherTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := storage.NewFS(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	return dataDir, store, testDB(t)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

// startWatch runs Watch until the test ends and waits for it to return.
func startWatch(t *testing.T, db *DB, store storage.Provider, cb EventCallback) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, db, store, recordingIndexer{db}, quietLogger(), cb)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
}

func TestSync_IndexesAndRemoves(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	_ = os.WriteFile(filepath.Join(dataDir, "books.csv"), []byte("Title\nA\n"), 0o644)
	_ = db.RecordFile("gone.csv", "old")

	changed, err := Sync(db, store, recordingIndexer{db}, quietLogger())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(changed) != 2 {
		t.Errorf("changed = %v, want 2 entries", changed)
	}
	if cs, _ := db.GetChecksum("books.csv"); cs == "" {
		t.Error("books.csv not indexed")
	}
	if cs, _ := db.GetChecksum("gone.csv"); cs != "" {
		t.Error("stale entry not removed")
	}

	again, _ := Sync(db, store, recordingIndexer{db}, quietLogger())
	if len(again) != 0 {
		t.Errorf("second sync changed %v, want nothing", again)
	}
}

func TestWatcher_NewFileIndexed(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)

	var mu sync.Mutex
	var events []string
	startWatch(t, db, store, func(kind, name string) {
		mu.Lock()
		events = append(events, kind+":"+name)
		mu.Unlock()
	})

	_ = os.WriteFile(filepath.Join(dataDir, "books.csv"), []byte("Title\nNew\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("books.csv")
		return cs != ""
	}, "new file not indexed by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "created:books.csv" || e == "updated:books.csv" {
				return true
			}
		}
		return false
	}, "expected a reload callback for books.csv")
}

func TestWatcher_IgnoresNonCSV(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	startWatch(t, db, store, nil)

	_ = os.WriteFile(filepath.Join(dataDir, "notes.txt"), []byte("x"), 0o644)
	time.Sleep(300 * time.Millisecond)

	all, _ := db.AllChecksums()
	if len(all) != 0 {
		t.Errorf("non-CSV file indexed: %v", all)
	}
}

func TestWatcher_DeleteRemovesFromIndex(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	_ = os.WriteFile(filepath.Join(dataDir, "del.csv"), []byte("Title\nX\n"), 0o644)
	_, _ = Sync(db, store, recordingIndexer{db}, quietLogger())

	if cs, _ := db.GetChecksum("del.csv"); cs == "" {
		t.Fatal("precondition: file should be indexed")
	}

	startWatch(t, db, store, nil)
	_ = os.Remove(filepath.Join(dataDir, "del.csv"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("del.csv")
		return cs == ""
	}, "deleted file still in index")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	dataDir, store, db := watcherTestEnv(t)
	_ = os.WriteFile(filepath.Join(dataDir, "old.csv"), []byte("Title\nR\n"), 0o644)
	_, _ = Sync(db, store, recordingIndexer{db}, quietLogger())

	startWatch(t, db, store, nil)
	_ = os.Rename(filepath.Join(dataDir, "old.csv"), filepath.Join(dataDir, "renamed.csv"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		oldCS, _ := db.GetChecksum("old.csv")
		newCS, _ := db.GetChecksum("renamed.csv")
		return oldCS == "" && newCS != ""
	}, "rename reconciliation failed: old name should be removed and new name indexed")
}
