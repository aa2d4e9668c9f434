// Package keymap provides shortcut registration for the canvas.
//
// The Registry maps chord descriptors to ordered lists of commands. A chord
// is registered with a shortcut string resolved through a key.Table:
//
//	reg := keymap.NewRegistry(key.NewTable())
//	reg.AddFunc("Tab | Insert", "node.insertChild", insertChild)
//	reg.AddFunc("Control+c", "node.copy", copyNode)
//
// Each OR-separated descriptor is registered on its own, so "Tab | Insert"
// creates two entries sharing one command.
//
// # Key Concepts
//
// Command: A named callback. Its pointer is its identity, so the same
// command can be removed later or registered twice.
//
// Entry: One descriptor with its commands, in registration order.
//
// Keymap: A named set of bindings (keys to action name) loaded from a TOML or
// YAML file and applied against a set of actions.
//
// # Save and Restore
//
// Save moves every entry into a single cache slot and leaves the registry
// empty; Restore moves them back. A second Save while the slot is taken and
// a Restore with an empty slot are both ignored. Text editing sessions use
// this to suspend canvas shortcuts while they run their own.
package keymap
