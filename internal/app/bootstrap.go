package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dshills/canvaskeys/internal/config"
	"github.com/dshills/canvaskeys/internal/config/watcher"
	"github.com/dshills/canvaskeys/internal/dispatcher"
	"github.com/dshills/canvaskeys/internal/dispatcher/hook"
	"github.com/dshills/canvaskeys/internal/event"
	"github.com/dshills/canvaskeys/internal/host"
	"github.com/dshills/canvaskeys/internal/host/terminal"
	"github.com/dshills/canvaskeys/internal/input/keymap"
	"github.com/dshills/canvaskeys/internal/logging"
	"github.com/dshills/canvaskeys/internal/plugin/lua"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 10),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,     // 1. Config file, env and flag overrides
		b.initLogging,    // 2. Logger
		b.initEventBus,   // 3. Host event bus
		b.initDocument,   // 4. Document tree with the canvas element
		b.initDispatcher, // 5. Dispatcher, hooks and attachment
		b.initKeymap,     // 6. Default or file keymap
		b.initScripts,    // 7. Lua scripts
		b.initWatcher,    // 8. Keymap hot reload
		b.initTerminal,   // 9. Terminal host
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads the config file and applies option overrides.
func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	if path == "" {
		path = config.DefaultFileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}

	if b.opts.KeymapPath != "" {
		cfg.Shortcut.Keymap = b.opts.KeymapPath
	}
	cfg.Shortcut.Scripts = append(cfg.Shortcut.Scripts, b.opts.Scripts...)
	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
	}
	if b.opts.Debug {
		cfg.Log.Level = "debug"
	}
	if b.opts.LogFile != "" {
		cfg.Log.File = b.opts.LogFile
	}
	if b.opts.ReadOnly {
		cfg.ReadOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogging creates the application logger.
func (b *bootstrapper) initLogging() error {
	out := b.opts.LogOutput
	if out == nil && !b.opts.NoTerminal {
		// The screen owns the terminal; log only to a file.
		out = io.Discard
	}
	logger, closer, err := logging.New(logging.Config{
		Level:  b.app.config.Log.Level,
		File:   b.app.config.Log.File,
		Output: out,
	})
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.logger = logger
	b.app.logCloser = closer
	b.initOrder = append(b.initOrder, "logging")

	if b.app.config.Path != "" {
		logger.Info().Str("path", b.app.config.Path).Msg("config loaded")
	}
	return nil
}

// initEventBus initializes the event bus.
func (b *bootstrapper) initEventBus() error {
	b.app.bus = event.NewBus(event.WithLogger(b.app.logger))
	b.initOrder = append(b.initOrder, "eventBus")
	return nil
}

// initDocument builds the host document with the canvas element and the
// diagram's root node.
func (b *bootstrapper) initDocument() error {
	b.app.document = host.NewDocument()
	b.app.canvas = b.app.document.Append(CanvasID, "smm-canvas")
	b.app.canvas.Append(RootNodeID, "smm-node")
	b.initOrder = append(b.initOrder, "document")
	return nil
}

// initDispatcher creates the dispatcher, installs the hooks and attaches
// it to the bus.
func (b *bootstrapper) initDispatcher() error {
	sc := b.app.config.Shortcut
	cfg := dispatcher.DefaultConfig().
		WithPointerGating(sc.EnableShortcutOnlyWhenMouseInSvg).
		WithPanicRecovery(sc.RecoverFromPanic).
		WithPasteShortcut(sc.PasteShortcut).
		WithEditableClasses(sc.EditableClasses).
		WithSelection(b.app.Selection).
		WithRoot(b.app.canvas)
	if b.opts.Debug {
		cfg = cfg.WithMetrics()
	}

	logger := logging.Component(b.app.logger, "shortcuts")
	hooks := hook.NewManager()
	hooks.Register(hook.NewAuditHook(logger))
	b.app.readOnly = hook.NewReadOnlyHook(keymap.MutatingActions())
	b.app.readOnly.SetReadOnly(b.app.config.ReadOnly)
	hooks.Register(b.app.readOnly)
	hooks.Register(hook.NewSelectionGuardHook(selectionActions()))
	if b.opts.Debug {
		hooks.Register(hook.NewTimingHook(b.app.logSlowRun))
	}

	b.app.dispatcher = dispatcher.New(cfg,
		dispatcher.WithLogger(b.app.logger),
		dispatcher.WithHooks(hooks),
	)
	if err := b.app.dispatcher.Attach(b.app.bus); err != nil {
		return &InitError{Component: "dispatcher", Err: err}
	}
	b.app.actions = b.app.builtinActions()
	b.initOrder = append(b.initOrder, "dispatcher")
	return nil
}

// initKeymap applies the keymap file, or the default keymap without one.
func (b *bootstrapper) initKeymap() error {
	km := keymap.DefaultKeymap()
	if path := b.app.config.Shortcut.Keymap; path != "" {
		loaded, err := keymap.NewLoader().LoadFile(path)
		if err != nil {
			return &InitError{Component: "keymap", Err: err}
		}
		km = loaded
	}

	applied, err := km.Apply(b.app.dispatcher, b.app.actions)
	if applied == nil {
		return &InitError{Component: "keymap", Err: err}
	}
	if err != nil {
		// Unknown actions are skipped; the rest of the keymap is usable.
		b.app.logger.Warn().Err(err).Str("keymap", km.Name).Msg("keymap has unknown actions")
	}
	b.app.keymap = applied
	b.initOrder = append(b.initOrder, "keymap")

	b.app.logger.Info().
		Str("keymap", km.Name).
		Str("source", km.Source).
		Int("bindings", applied.Len()).
		Msg("keymap applied")
	return nil
}

// initScripts runs the configured Lua scripts, each with its own shortcut
// module so its bindings can be told apart.
func (b *bootstrapper) initScripts() error {
	scripts := b.app.config.Shortcut.Scripts
	if len(scripts) == 0 {
		return nil
	}

	b.app.lua = lua.NewState()
	b.initOrder = append(b.initOrder, "lua")

	logger := logging.Component(b.app.logger, "lua")
	for _, path := range scripts {
		m := lua.NewModule(b.app.lua, b.app.dispatcher,
			lua.WithLogger(b.app.logger),
			lua.WithSource(filepath.Base(path)),
		)
		b.app.scripts = append(b.app.scripts, m)
		if err := b.app.lua.DoFile(path); err != nil {
			return &InitError{Component: "lua", Err: fmt.Errorf("%s: %w", path, err)}
		}
		logger.Info().Str("script", path).Int("shortcuts", m.Len()).Msg("script loaded")
	}
	return nil
}

// initWatcher reloads the keymap file when it changes.
func (b *bootstrapper) initWatcher() error {
	path := b.app.config.Shortcut.Keymap
	if path == "" {
		return nil
	}

	w, err := watcher.New(watcher.WithLogger(b.app.logger))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")

	w.OnChange(b.app.onKeymapChange)
	if err := w.Watch(path); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	return nil
}

// initTerminal creates and initializes the terminal host.
func (b *bootstrapper) initTerminal() error {
	if b.opts.NoTerminal {
		return nil
	}

	opts := []terminal.Option{
		terminal.WithLogger(b.app.logger),
		terminal.WithTarget(b.app.canvas),
	}
	if b.opts.Screen != nil {
		opts = append(opts, terminal.WithScreen(b.opts.Screen))
	}
	t, err := terminal.New(b.app.bus, opts...)
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	if err := t.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	b.app.terminal = t
	b.initOrder = append(b.initOrder, "terminal")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(context.Background(), b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(ctx context.Context, component string) {
	switch component {
	case "terminal":
		b.app.terminal.Shutdown(ctx)
		b.app.terminal = nil
	case "watcher":
		_ = b.app.watcher.Close()
		b.app.watcher = nil
	case "lua":
		for _, m := range b.app.scripts {
			m.Unbind()
		}
		b.app.scripts = nil
		_ = b.app.lua.Close()
		b.app.lua = nil
	case "keymap":
		b.app.keymap.Unbind(b.app.dispatcher)
		b.app.keymap = nil
	case "dispatcher":
		b.app.dispatcher.Detach()
		b.app.dispatcher = nil
	case "document":
		b.app.document = nil
		b.app.canvas = nil
	case "eventBus":
		b.app.bus.Close()
		b.app.bus = nil
	case "logging":
		_ = b.app.logCloser.Close()
		b.app.logCloser = nil
	case "config":
		b.app.config = nil
	}
}
