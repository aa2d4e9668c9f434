// Package key provides key codes, key events and chord matching for the
// shortcut system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Code: A canonical numeric key code (browser keyCode values)
//   - Table: The mutable mapping from symbolic key names to codes
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key-down with modifiers, target and default handling
//   - Descriptor: An unordered, deduplicated set of codes forming one chord
//
// # Shortcut Strings
//
// Shortcuts are registered with a small grammar:
//
//	shortcut   := descriptor ('|' descriptor)*
//	descriptor := token ('+' token)*
//
// Tokens are key names resolved through a Table, for example "Control+c",
// "Shift + Tab" or "Del | Backspace". Whitespace around separators is ignored.
//
// # Matching
//
// An Event is reduced to its code set with EventCodes and compared against a
// Descriptor with Matches. Matching is exact and order independent:
// {Control, Shift, Enter} never matches {Control, Enter}.
package key
