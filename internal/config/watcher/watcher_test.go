package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newWatcher(t *testing.T, delay time.Duration) *Watcher {
	t.Helper()
	w, err := New(WithDelay(delay))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWatchUnwatch(t *testing.T) {
	w := newWatcher(t, 0)
	path := filepath.Join(t.TempDir(), "keys.toml")

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("should be watching path")
	}
	if err := w.Watch(path); err != nil {
		t.Errorf("second Watch() error = %v", err)
	}

	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if w.IsWatching(path) {
		t.Error("should not be watching after Unwatch")
	}
	if err := w.Unwatch(path); !errors.Is(err, ErrNotWatching) {
		t.Errorf("Unwatch again error = %v, want ErrNotWatching", err)
	}
}

func TestWatchMissingDir(t *testing.T) {
	w := newWatcher(t, 0)
	if err := w.Watch("/nonexistent/dir/keys.toml"); err == nil {
		t.Error("Watch() should fail for a missing directory")
	}
}

func TestClosed(t *testing.T) {
	w := newWatcher(t, 0)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "a.toml")); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close error = %v", err)
	}
}

func TestChangeIsReported(t *testing.T) {
	w := newWatcher(t, 20*time.Millisecond)
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.toml")
	other := filepath.Join(dir, "other.toml")

	events := make(chan Event, 4)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	// Files in the same directory that are not watched are ignored.
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("name = \"a\""), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		abs, _ := filepath.Abs(path)
		if ev.Path != abs {
			t.Errorf("Path = %q, want %q", ev.Path, abs)
		}
		if ev.Op == OpRemove {
			t.Errorf("Op = %s", ev.Op)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestDebounceCoalesces(t *testing.T) {
	w := newWatcher(t, time.Hour)
	path := filepath.Join(t.TempDir(), "keys.toml")
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(path)

	fired := 0
	w.OnChange(func(Event) { fired++ })

	w.handle(fsnotify.Event{Name: abs, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: abs, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: abs, Op: fsnotify.Chmod})

	w.mu.Lock()
	n := len(w.pending)
	op := w.pending[abs].event.Op
	w.mu.Unlock()
	if n != 1 || op != OpWrite {
		t.Fatalf("pending = %d (op %s), want one write", n, op)
	}

	w.fire(abs)
	w.fire(abs)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestMergeOp(t *testing.T) {
	tests := []struct {
		prev, next, want Operation
	}{
		{OpWrite, OpWrite, OpWrite},
		{OpRemove, OpCreate, OpCreate},
		{OpCreate, OpWrite, OpCreate},
		{OpWrite, OpRemove, OpRemove},
	}
	for _, tt := range tests {
		if got := mergeOp(tt.prev, tt.next); got != tt.want {
			t.Errorf("mergeOp(%s, %s) = %s, want %s", tt.prev, tt.next, got, tt.want)
		}
	}
}

func TestConvertOp(t *testing.T) {
	if _, ok := convertOp(fsnotify.Chmod); ok {
		t.Error("chmod should be ignored")
	}
	if op, _ := convertOp(fsnotify.Rename); op != OpRemove {
		t.Errorf("rename = %s, want remove", op)
	}
	if op, _ := convertOp(fsnotify.Create | fsnotify.Write); op != OpCreate {
		t.Errorf("create|write = %s, want create", op)
	}
}
