package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ShelfWatch/internal/domain/models"
)

func waitEvent(t *testing.T, ch <-chan struct{}, timeout time.Duration) bool {
	t.Helper()
	select {
	case _, ok := <-ch:
		return ok
	case <-time.After(timeout):
		return false
	}
}

func TestWatcherSeesDirectWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	writeFile(t, path, `[]`)

	w := NewWatcher(path, time.Hour, testLogger(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		cancel()
		w.Close()
	}()

	writeFile(t, path, `[{"id":1,"name":"a","price":1}]`)

	if !waitEvent(t, w.Events(), 2*time.Second) {
		t.Fatalf("no event after write")
	}
}

func TestWatcherSeesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	writeFile(t, path, `[]`)

	w := NewWatcher(path, time.Hour, testLogger(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		cancel()
		w.Close()
	}()

	// Write the way FileStore does: temp file then rename into place.
	s := NewFileStore(path, testLogger(t))
	if _, err := s.Append(context.Background(), models.Item{Name: "b", Price: "2"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if !waitEvent(t, w.Events(), 2*time.Second) {
		t.Fatalf("no event after rename")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	writeFile(t, path, `[]`)

	w := NewWatcher(path, time.Hour, testLogger(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		cancel()
		w.Close()
	}()

	writeFile(t, filepath.Join(dir, "other.json"), `{}`)

	select {
	case <-w.Events():
		t.Fatalf("unexpected event for sibling file")
	case <-time.After(300 * time.Millisecond):
	}
}

// With the fsnotify path unavailable (nothing mutates through it), the poll
// fallback must still detect a drifted mtime/size.
func TestWatcherPollFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	writeFile(t, path, `[]`)

	w := NewWatcher(path, 50*time.Millisecond, testLogger(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		cancel()
		w.Close()
	}()

	// Touch only the mtime. fsnotify reports that as Chmod, which the
	// watcher filters out, so a delivered event can only come from the
	// poll comparison.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-w.Events():
			return
		case <-deadline:
			t.Fatalf("poll fallback never fired")
		}
	}
}

// The poll baseline is taken inside Start, so a mutation landing right after
// Start returns is a drift from the baseline, not absorbed into it.
func TestWatcherPollSeesMutationRightAfterStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	writeFile(t, path, `[]`)

	w := NewWatcher(path, 50*time.Millisecond, testLogger(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		cancel()
		w.Close()
	}()

	// Mtime-only change immediately after Start. fsnotify sees it as Chmod
	// and filters it, so only the poll comparison can report it.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if !waitEvent(t, w.Events(), 2*time.Second) {
		t.Fatalf("mutation after Start was absorbed into the poll baseline")
	}
}

func TestWatcherEventsCloseOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	writeFile(t, path, `[]`)

	w := NewWatcher(path, time.Hour, testLogger(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	cancel()
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case _, ok := <-w.Events():
		if ok {
			// A buffered event may still drain; the channel must close after.
			if _, ok := <-w.Events(); ok {
				t.Fatalf("events channel not closed")
			}
		}
	case <-time.After(time.Second):
		t.Fatalf("events channel not closed")
	}
}
