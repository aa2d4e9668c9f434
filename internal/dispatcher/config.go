package dispatcher

import (
	"slices"

	"github.com/dshills/canvaskeys/internal/input/gate"
)

// DefaultPasteShortcut is the chord whose native default action is kept.
const DefaultPasteShortcut = "Control+v"

// Config holds dispatcher configuration options.
type Config struct {
	// OnlyWhenPointerInCanvas ignores events while the pointer is outside
	// the canvas, unless the pointer check is stopped.
	OnlyWhenPointerInCanvas bool

	// RecoverFromPanic recovers panics raised by commands. A panic stops the
	// remaining commands of its chord only.
	RecoverFromPanic bool

	// PasteShortcut is never default-prevented. Empty disables the exception.
	PasteShortcut string

	// EditableClasses are target classes that always allow shortcuts.
	// Nil means gate.DefaultEditableClasses.
	EditableClasses []string

	// BeforeShortcutRun is called with the matched chord's spelling and a
	// copy of the selection. Returning true skips that chord's commands.
	BeforeShortcutRun func(keys string, selection []string) bool

	// CustomCheckEnableShortcut replaces the default target check.
	CustomCheckEnableShortcut gate.CheckFunc

	// Selection returns the active selection when a chord matches.
	Selection func() []string

	// Root is the canvas root element for the default target check.
	Root gate.Container

	// EnableMetrics enables run statistics collection.
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RecoverFromPanic: true,
		PasteShortcut:    DefaultPasteShortcut,
		EditableClasses:  slices.Clone(gate.DefaultEditableClasses),
	}
}

// WithPointerGating returns a copy of the config with pointer gating set.
func (c Config) WithPointerGating(enabled bool) Config {
	c.OnlyWhenPointerInCanvas = enabled
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithPasteShortcut returns a copy of the config with the paste chord set.
func (c Config) WithPasteShortcut(keys string) Config {
	c.PasteShortcut = keys
	return c
}

// WithEditableClasses returns a copy of the config with the editable classes set.
func (c Config) WithEditableClasses(classes []string) Config {
	c.EditableClasses = slices.Clone(classes)
	return c
}

// WithBeforeShortcutRun returns a copy of the config with the veto callback set.
func (c Config) WithBeforeShortcutRun(fn func(keys string, selection []string) bool) Config {
	c.BeforeShortcutRun = fn
	return c
}

// WithEnableCheck returns a copy of the config with a custom enable check.
func (c Config) WithEnableCheck(fn gate.CheckFunc) Config {
	c.CustomCheckEnableShortcut = fn
	return c
}

// WithSelection returns a copy of the config with the selection source set.
func (c Config) WithSelection(fn func() []string) Config {
	c.Selection = fn
	return c
}

// WithRoot returns a copy of the config with the canvas root set.
func (c Config) WithRoot(root gate.Container) Config {
	c.Root = root
	return c
}
