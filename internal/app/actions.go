package app

import (
	"time"

	"github.com/dshills/canvaskeys/internal/host"
	"github.com/dshills/canvaskeys/internal/input/keymap"
)

// slowRun is the chord duration logged as slow in debug mode.
const slowRun = 50 * time.Millisecond

// selectionActions lists the actions that need a selected node.
func selectionActions() []string {
	return []string{
		keymap.ActionInsertChild,
		keymap.ActionInsertSibling,
		keymap.ActionInsertParent,
		keymap.ActionRemoveNode,
		keymap.ActionRemoveCurrent,
		keymap.ActionCopyNode,
		keymap.ActionCutNode,
		keymap.ActionMoveUp,
		keymap.ActionMoveDown,
		keymap.ActionGeneralization,
		keymap.ActionToggleExpand,
		keymap.ActionEditText,
	}
}

// builtinActions returns the handlers keymap actions resolve to.
//
// Node editing belongs to the canvas and is not implemented here; those
// actions are logged and recorded in the history. Selection actions update
// the selection that hooks and handlers see.
func (app *Application) builtinActions() keymap.Actions {
	names := []string{
		keymap.ActionInsertChild,
		keymap.ActionInsertSibling,
		keymap.ActionInsertParent,
		keymap.ActionRemoveNode,
		keymap.ActionRemoveCurrent,
		keymap.ActionCopyNode,
		keymap.ActionCutNode,
		keymap.ActionPasteNode,
		keymap.ActionMoveUp,
		keymap.ActionMoveDown,
		keymap.ActionGeneralization,
		keymap.ActionToggleExpand,
		keymap.ActionEditText,
		keymap.ActionUndo,
		keymap.ActionRedo,
		keymap.ActionResetLayout,
		keymap.ActionZoomIn,
		keymap.ActionZoomOut,
		keymap.ActionFitView,
		keymap.ActionSelectLeft,
		keymap.ActionSelectUp,
		keymap.ActionSelectRight,
		keymap.ActionSelectDown,
		keymap.ActionSearch,
		keymap.ActionToggleFullscreen,
	}

	actions := make(keymap.Actions, len(names)+3)
	for _, name := range names {
		actions[name] = app.recorder(name, nil)
	}
	actions[keymap.ActionSelectAll] = app.recorder(keymap.ActionSelectAll, app.selectAll)
	actions[keymap.ActionCancelSelection] = app.recorder(keymap.ActionCancelSelection, func() {
		app.SetSelection()
	})
	actions[keymap.ActionLogNodeInfo] = app.recorder(keymap.ActionLogNodeInfo, app.logNodeInfo)
	return actions
}

// recorder returns a handler that runs fn, then logs and records name.
func (app *Application) recorder(name string, fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
		app.mu.Lock()
		app.history = append(app.history, name)
		app.mu.Unlock()
		app.logger.Debug().Str("action", name).Msg("action")
	}
}

// selectAll selects every node of the canvas.
func (app *Application) selectAll() {
	var ids []string
	var walk func(e *host.Element)
	walk = func(e *host.Element) {
		for _, c := range e.Children() {
			ids = append(ids, c.ID)
			walk(c)
		}
	}
	walk(app.canvas)
	app.SetSelection(ids...)
}

func (app *Application) logNodeInfo() {
	selection := app.Selection()
	if len(selection) == 0 {
		app.logger.Info().Msg("no node selected")
		return
	}
	for _, id := range selection {
		node := app.canvas.Find(id)
		if node == nil {
			app.logger.Info().Str("id", id).Msg("selected node not on canvas")
			continue
		}
		app.logger.Info().Str("id", id).Str("path", node.Path()).Strs("classes", node.Classes).Msg("node info")
	}
}

func (app *Application) logSlowRun(keys string, d time.Duration) {
	if d >= slowRun {
		app.logger.Warn().Str("keys", keys).Dur("duration", d).Msg("slow shortcut")
	}
}
