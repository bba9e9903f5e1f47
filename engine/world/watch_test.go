package world

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReportsWritesToTheWatchedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("size: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("size: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if filepath.Base(got) != "world.yaml" {
			t.Fatalf("event for %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event for world file")
	}
}

func TestWatcher_BurstReportsAfterLastWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	if err := os.WriteFile(path, []byte("size: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(reloadDebounce / 2)
	if err := os.WriteFile(path, []byte("size: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	last := time.Now()

	select {
	case <-w.Events:
		if d := time.Since(last); d < reloadDebounce-5*time.Millisecond {
			t.Fatalf("event %v after the final write, want at least %v", d, reloadDebounce)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event for the final write")
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "size: 3\n" {
		t.Fatalf("file at event time = %q, %v", b, err)
	}

	select {
	case <-w.Events:
		t.Fatal("burst reported more than once")
	case <-time.After(3 * reloadDebounce):
	}
}

func TestWatcher_PollDrains(t *testing.T) {
	w := &Watcher{Events: make(chan string, 4)}
	if w.Poll() {
		t.Fatal("Poll on empty channel reported a change")
	}
	w.Events <- "a"
	w.Events <- "a"
	if !w.Poll() {
		t.Fatal("Poll missed pending change")
	}
	if w.Poll() {
		t.Fatal("Poll did not drain")
	}
}
