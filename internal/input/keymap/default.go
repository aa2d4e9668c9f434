package keymap

// Action names used by the default keymap.
const (
	ActionInsertChild      = "node.insertChild"
	ActionInsertSibling    = "node.insertSibling"
	ActionInsertParent     = "node.insertParent"
	ActionRemoveNode       = "node.remove"
	ActionRemoveCurrent    = "node.removeCurrent"
	ActionCopyNode         = "node.copy"
	ActionCutNode          = "node.cut"
	ActionPasteNode        = "node.paste"
	ActionSelectAll        = "node.selectAll"
	ActionMoveUp           = "node.moveUp"
	ActionMoveDown         = "node.moveDown"
	ActionGeneralization   = "node.addGeneralization"
	ActionToggleExpand     = "node.toggleExpand"
	ActionEditText         = "node.editText"
	ActionLogNodeInfo      = "node.logInfo"
	ActionUndo             = "history.undo"
	ActionRedo             = "history.redo"
	ActionResetLayout      = "layout.reset"
	ActionZoomIn           = "view.zoomIn"
	ActionZoomOut          = "view.zoomOut"
	ActionFitView          = "view.fit"
	ActionSelectLeft       = "selection.left"
	ActionSelectUp         = "selection.up"
	ActionSelectRight      = "selection.right"
	ActionSelectDown       = "selection.down"
	ActionCancelSelection  = "selection.clear"
	ActionSearch           = "search.open"
	ActionToggleFullscreen = "view.fullscreen"
)

// DefaultKeymap returns the canvas's built-in bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:   "default",
		Source: "default",
		Bindings: []Binding{
			// Structure
			{Keys: "Tab | Insert", Action: ActionInsertChild, Description: "Insert child node", Category: "Structure"},
			{Keys: "Enter", Action: ActionInsertSibling, Description: "Insert sibling node", Category: "Structure"},
			{Keys: "Shift+Tab", Action: ActionInsertParent, Description: "Insert parent node", Category: "Structure"},
			{Keys: "Del | Backspace", Action: ActionRemoveNode, Description: "Remove node", Category: "Structure"},
			{Keys: "Shift+Backspace", Action: ActionRemoveCurrent, Description: "Remove node only", Category: "Structure"},
			{Keys: "Control+Up", Action: ActionMoveUp, Description: "Move node up", Category: "Structure"},
			{Keys: "Control+Down", Action: ActionMoveDown, Description: "Move node down", Category: "Structure"},
			{Keys: "Control+g", Action: ActionGeneralization, Description: "Add generalization", Category: "Structure"},
			{Keys: "/", Action: ActionToggleExpand, Description: "Expand or collapse node", Category: "Structure"},
			{Keys: "F2", Action: ActionEditText, Description: "Edit node text", Category: "Structure"},

			// Clipboard
			{Keys: "Control+c", Action: ActionCopyNode, Description: "Copy node", Category: "Clipboard"},
			{Keys: "Control+x", Action: ActionCutNode, Description: "Cut node", Category: "Clipboard"},
			{Keys: "Control+v", Action: ActionPasteNode, Description: "Paste node", Category: "Clipboard"},

			// History
			{Keys: "Control+z", Action: ActionUndo, Description: "Undo", Category: "History"},
			{Keys: "Control+y", Action: ActionRedo, Description: "Redo", Category: "History"},

			// Selection
			{Keys: "Control+a", Action: ActionSelectAll, Description: "Select all nodes", Category: "Selection"},
			{Keys: "Left", Action: ActionSelectLeft, Description: "Select node to the left", Category: "Selection"},
			{Keys: "Up", Action: ActionSelectUp, Description: "Select node above", Category: "Selection"},
			{Keys: "Right", Action: ActionSelectRight, Description: "Select node to the right", Category: "Selection"},
			{Keys: "Down", Action: ActionSelectDown, Description: "Select node below", Category: "Selection"},
			{Keys: "Esc", Action: ActionCancelSelection, Description: "Clear selection", Category: "Selection"},

			// View
			{Keys: "Control+l", Action: ActionResetLayout, Description: "Reset layout", Category: "View"},
			{Keys: "Control+=", Action: ActionZoomIn, Description: "Zoom in", Category: "View"},
			{Keys: "Control+-", Action: ActionZoomOut, Description: "Zoom out", Category: "View"},
			{Keys: "Control+i", Action: ActionFitView, Description: "Fit canvas", Category: "View"},
			{Keys: "Control+f", Action: ActionSearch, Description: "Search nodes", Category: "View"},
			{Keys: "F11", Action: ActionToggleFullscreen, Description: "Toggle fullscreen", Category: "View"},

			// Diagnostics
			{Keys: "Control+Alt+l", Action: ActionLogNodeInfo, Description: "Log selected node id and text", Category: "Diagnostics"},
		},
	}
}

// MutatingActions lists default actions that change the diagram.
// A read-only canvas vetoes these.
func MutatingActions() []string {
	return []string{
		ActionInsertChild,
		ActionInsertSibling,
		ActionInsertParent,
		ActionRemoveNode,
		ActionRemoveCurrent,
		ActionCutNode,
		ActionPasteNode,
		ActionMoveUp,
		ActionMoveDown,
		ActionGeneralization,
		ActionEditText,
		ActionUndo,
		ActionRedo,
		ActionResetLayout,
	}
}
