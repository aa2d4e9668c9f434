// Package lua lets Lua scripts register keyboard shortcuts.
//
// # State
//
// State wraps a gopher-lua runtime with the io, os and debug libraries
// left closed and a per-call execution timeout:
//
//	state := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	defer state.Close()
//
// # Shortcut module
//
// NewModule installs the shortcut table. Lua functions passed to
// shortcut.add become commands in the dispatcher and run under the state
// lock when their chord fires:
//
//	shortcut.extend("Menu", 93)
//	shortcut.add("Control+Menu", function()
//	    shortcut.pause()
//	end, "menu.pause")
//
// Errors raised inside a handler are logged and do not reach the
// dispatcher.
package lua
