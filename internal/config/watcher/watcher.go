// Package watcher provides file watching for keymap live reload.
//
// The watcher monitors individual files and calls a handler once a burst
// of changes has settled. Parent directories are watched, not the files
// themselves, so editors that save by renaming a temp file still trigger
// a reload.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Errors returned by the watcher.
var (
	ErrWatcherClosed = errors.New("watcher closed")
	ErrNotWatching   = errors.New("path not being watched")
)

// DefaultDelay is the debounce delay used when none is given.
const DefaultDelay = 100 * time.Millisecond

// Event represents a settled file change.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last change in the burst was seen.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates the file was created or replaced.
	OpCreate

	// OpRemove indicates the file was deleted or renamed away.
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Handler is called when a file change has settled.
type Handler func(event Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.Mutex

	fsw    *fsnotify.Watcher
	logger zerolog.Logger
	delay  time.Duration

	// Watched files and the number of files per watched directory.
	files map[string]bool
	dirs  map[string]int

	handlers []Handler
	pending  map[string]*pendingEvent

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// pendingEvent tracks a debounced change.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		logger:  zerolog.Nop(),
		delay:   DefaultDelay,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]*pendingEvent),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With().Str("component", "watcher").Logger()

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// OnChange registers a handler for settled changes.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Watch starts watching path. The file need not exist yet but its
// directory must. Watching a path twice is a no-op.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}
	if w.dirs[dir] == 0 {
		if _, err := os.Stat(dir); err != nil {
			return err
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.files[abs] = true
	w.dirs[dir]++
	return nil
}

// Unwatch stops watching path.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[abs] {
		return ErrNotWatching
	}
	delete(w.files, abs)
	if p := w.pending[abs]; p != nil {
		p.timer.Stop()
		delete(w.pending, abs)
	}
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// IsWatching reports whether path is being watched.
func (w *Watcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// Close stops the watcher. Pending changes are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("file watch error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}

	now := time.Now()
	if p := w.pending[path]; p != nil {
		p.event.Op = mergeOp(p.event.Op, op)
		p.event.Time = now
		p.timer.Reset(w.delay)
		return
	}

	p := &pendingEvent{event: Event{Path: path, Op: op, Time: now}}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(path) })
	w.pending[path] = p
}

// fire delivers a settled change outside the lock.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p := w.pending[path]
	if w.closed || p == nil {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.Unlock()

	w.logger.Debug().Str("path", path).Str("op", p.event.Op.String()).Msg("file changed")
	for _, h := range handlers {
		h(p.event)
	}
}

// convertOp maps fsnotify operations. Chmod is ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// mergeOp combines operations seen in one burst. A remove followed by a
// create is a replace, which reloads like a create.
func mergeOp(prev, next Operation) Operation {
	if next == OpRemove {
		return OpRemove
	}
	if prev == OpRemove || prev == OpCreate {
		return OpCreate
	}
	return next
}
