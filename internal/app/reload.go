package app

import (
	"github.com/dshills/canvaskeys/internal/config/watcher"
	"github.com/dshills/canvaskeys/internal/input/keymap"
)

// ReloadKeymap loads the configured keymap file again and replaces the
// bindings applied from it. Shortcuts registered by scripts or other Go
// code are left alone. If the file cannot be loaded the previous bindings
// stay in place.
func (app *Application) ReloadKeymap() error {
	path := app.config.Shortcut.Keymap
	if path == "" {
		return ErrNoKeymap
	}

	app.reloadMu.Lock()
	defer app.reloadMu.Unlock()

	km, err := keymap.NewLoader().LoadFile(path)
	if err != nil {
		return &ComponentError{Component: "keymap", Action: "reload", Err: err}
	}

	app.mu.Lock()
	previous := app.keymap
	app.mu.Unlock()
	previous.Unbind(app.dispatcher)

	applied, err := km.Apply(app.dispatcher, app.actions)
	app.mu.Lock()
	app.keymap = applied
	app.mu.Unlock()

	app.logger.Info().
		Str("keymap", km.Name).
		Str("path", path).
		Int("bindings", applied.Len()).
		Msg("keymap reloaded")
	if err != nil {
		app.logger.Warn().Err(err).Str("keymap", km.Name).Msg("keymap has unknown actions")
	}
	return nil
}

// KeymapBindings returns the number of bindings applied from the keymap.
func (app *Application) KeymapBindings() int {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.keymap.Len()
}

func (app *Application) onKeymapChange(ev watcher.Event) {
	if ev.Op == watcher.OpRemove {
		app.logger.Warn().Str("path", ev.Path).Msg("keymap file removed, keeping current bindings")
		return
	}
	if err := app.ReloadKeymap(); err != nil {
		app.logger.Error().Err(err).Str("path", ev.Path).Msg("keymap reload failed")
	}
}

// Keymap returns the keymap whose bindings are applied.
func (app *Application) Keymap() *keymap.Keymap {
	app.mu.RLock()
	defer app.mu.RUnlock()
	if app.keymap == nil {
		return nil
	}
	return app.keymap.Keymap
}
