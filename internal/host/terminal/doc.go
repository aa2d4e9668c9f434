// Package terminal hosts the shortcut dispatcher in a tcell screen.
//
// The terminal plays the part of the browser window: it converts key
// presses to browser key codes and publishes them as window.keydown,
// treats a screen rectangle as the canvas and publishes pointer
// enter/leave as the mouse crosses it, and announces canvas.destroy.before
// on shutdown. The bottom line shows the last fired shortcut.
package terminal
