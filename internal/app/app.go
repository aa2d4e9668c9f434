// Package app wires the canvaskeys components together and manages the
// application lifecycle.
package app

import (
	"context"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/canvaskeys/internal/config"
	"github.com/dshills/canvaskeys/internal/config/watcher"
	"github.com/dshills/canvaskeys/internal/dispatcher"
	"github.com/dshills/canvaskeys/internal/dispatcher/hook"
	"github.com/dshills/canvaskeys/internal/event"
	"github.com/dshills/canvaskeys/internal/host"
	"github.com/dshills/canvaskeys/internal/host/terminal"
	"github.com/dshills/canvaskeys/internal/input/keymap"
	"github.com/dshills/canvaskeys/internal/plugin/lua"
)

const (
	// CanvasID is the id of the canvas element in the host document.
	CanvasID = "canvas"
	// RootNodeID is the id of the diagram's root node on the canvas.
	RootNodeID = "root"
)

// Application is the central coordinator for all canvaskeys components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config    *config.Config
	logger    zerolog.Logger
	logCloser io.Closer
	bus       *event.Bus

	// Shortcut handling
	dispatcher *dispatcher.Dispatcher
	readOnly   *hook.ReadOnlyHook
	actions    keymap.Actions
	keymap     *keymap.Applied
	reloadMu   sync.Mutex

	// Host
	document *host.Element
	canvas   *host.Element
	terminal *terminal.Terminal

	// Extensions
	lua     *lua.State
	scripts []*lua.Module
	watcher *watcher.Watcher

	// Canvas model the built-in actions operate on
	selection []string
	history   []string

	// State
	running      atomic.Bool
	shutdownOnce sync.Once
	done         chan struct{}
}

// Options configures the application.
type Options struct {
	// ConfigPath is the config file. A missing file means defaults.
	ConfigPath string

	// KeymapPath overrides the keymap file from the config.
	KeymapPath string

	// Scripts are Lua files run in addition to the configured ones.
	Scripts []string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogFile overrides the configured log file.
	LogFile string

	// LogOutput receives log output when no log file is set.
	// Defaults to stderr.
	LogOutput io.Writer

	// Debug enables debug logging and dispatcher metrics.
	Debug bool

	// ReadOnly vetoes mutating actions.
	ReadOnly bool

	// Screen is the terminal screen. Nil creates a real terminal screen.
	Screen tcell.Screen

	// NoTerminal runs without a terminal host. Key events must then be
	// published on the bus by the caller.
	NoTerminal bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		done: make(chan struct{}),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run starts the terminal host and blocks until the quit key, ctx
// cancellation or Shutdown. Without a terminal it blocks until ctx is done
// or Shutdown is called.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	select {
	case <-app.done:
		return ErrNotRunning
	default:
	}

	app.logger.Info().
		Int("shortcuts", app.dispatcher.Registry().Len()).
		Bool("readonly", app.readOnly.ReadOnly()).
		Msg("canvaskeys running")

	if app.terminal == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-app.done:
			return nil
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-app.done:
			cancel()
		case <-runCtx.Done():
		}
	}()

	err := app.terminal.Run(runCtx)
	if err != nil && ctx.Err() == nil && isDone(app.done) {
		// Cancelled by Shutdown.
		return nil
	}
	return err
}

// Shutdown releases every component in reverse initialization order.
// It is safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		close(app.done)
		app.shutdown(context.Background())
	})
}

func (app *Application) shutdown(ctx context.Context) {
	app.logger.Info().Msg("shutting down")

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn().Err(err).Msg("closing watcher")
		}
	}
	// The terminal publishes canvas.destroy.before, which detaches the
	// dispatcher.
	if app.terminal != nil {
		app.terminal.Shutdown(ctx)
	} else if err := app.bus.Publish(ctx, event.TopicBeforeDestroy, nil); err != nil {
		app.logger.Warn().Err(err).Msg("destroy delivery failed")
	}
	app.dispatcher.Detach()

	app.mu.Lock()
	scripts := app.scripts
	app.scripts = nil
	app.mu.Unlock()
	for _, m := range scripts {
		m.Unbind()
	}
	if app.lua != nil {
		_ = app.lua.Close()
	}

	app.bus.Close()
	if app.logCloser != nil {
		_ = app.logCloser.Close()
	}
}

func isDone(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// IsRunning returns true if Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Bus returns the host event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Dispatcher returns the shortcut dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Document returns the host document root.
func (app *Application) Document() *host.Element {
	return app.document
}

// Canvas returns the canvas element key events target.
func (app *Application) Canvas() *host.Element {
	return app.canvas
}

// Terminal returns the terminal host, or nil without one.
func (app *Application) Terminal() *terminal.Terminal {
	return app.terminal
}

// Logger returns the application logger.
func (app *Application) Logger() zerolog.Logger {
	return app.logger
}

// SetReadOnly toggles vetoing of mutating actions.
func (app *Application) SetReadOnly(ro bool) {
	app.readOnly.SetReadOnly(ro)
	app.logger.Info().Bool("readonly", ro).Msg("read-only mode changed")
}

// ReadOnly reports whether mutating actions are vetoed.
func (app *Application) ReadOnly() bool {
	return app.readOnly.ReadOnly()
}

// Selection returns a copy of the selected node ids.
func (app *Application) Selection() []string {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return slices.Clone(app.selection)
}

// SetSelection replaces the selected node ids.
func (app *Application) SetSelection(ids ...string) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.selection = slices.Clone(ids)
}

// History returns the names of the actions that ran, oldest first.
func (app *Application) History() []string {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return slices.Clone(app.history)
}
