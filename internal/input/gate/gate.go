// Package gate decides whether a key event may reach the shortcut registry.
//
// A Gate combines three pieces of state with a pluggable enable check:
//
//   - paused: every event is rejected until Resume
//   - pointerInCanvas: tracked from host pointer enter/leave events
//   - suppressPointerCheck: lets text editors inside the canvas receive
//     shortcuts while the pointer is elsewhere
//
// The pointer state is only consulted when OnlyWhenPointerInCanvas is set.
package gate

import (
	"slices"
	"sync"

	"github.com/dshills/canvaskeys/internal/input/key"
)

// DefaultEditableClasses are the class names of the canvas's inline editors.
var DefaultEditableClasses = []string{
	"smm-node-edit-wrap",
	"smm-richtext-node-edit-wrap",
	"smm-associative-line-text-edit-warp",
	"smm-outer-frame-text-edit-warp",
}

// CheckFunc reports whether an event's target context allows shortcuts.
type CheckFunc func(ev *key.Event) bool

// Container is an element that can contain event targets.
type Container interface {
	Contains(t key.Target) bool
}

// Options configures a Gate.
type Options struct {
	// OnlyWhenPointerInCanvas rejects events while the pointer is outside
	// the canvas, unless the pointer check is suppressed.
	OnlyWhenPointerInCanvas bool

	// EnableCheck replaces the default target check when set.
	EnableCheck CheckFunc

	// EditableClasses lists target classes that always allow shortcuts.
	// Nil means DefaultEditableClasses.
	EditableClasses []string

	// Root is the canvas element. Targets inside it allow shortcuts.
	Root Container
}

// DefaultOptions returns options with the default editable classes.
func DefaultOptions() Options {
	return Options{
		EditableClasses: slices.Clone(DefaultEditableClasses),
	}
}

// Gate is the event gate. It is safe for concurrent use.
type Gate struct {
	mu sync.RWMutex

	opts Options

	paused          bool
	pointerInCanvas bool
	suppressPointer bool
}

// New creates a gate. The gate starts resumed with the pointer outside.
func New(opts Options) *Gate {
	if opts.EditableClasses == nil {
		opts.EditableClasses = slices.Clone(DefaultEditableClasses)
	}
	return &Gate{opts: opts}
}

// ShouldProcess reports whether ev may be matched against shortcuts.
// The enable check runs first, then the pause and pointer state.
func (g *Gate) ShouldProcess(ev *key.Event) bool {
	if ev == nil {
		return false
	}

	g.mu.RLock()
	check := g.opts.EnableCheck
	g.mu.RUnlock()
	if check == nil {
		check = g.DefaultCheck
	}
	if !check(ev) {
		return false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.paused {
		return false
	}
	if g.opts.OnlyWhenPointerInCanvas && !g.suppressPointer && !g.pointerInCanvas {
		return false
	}
	return true
}

// DefaultCheck allows events targeting the document root, an element with
// an editable class, or an element inside the canvas root.
// Events without a target are rejected.
func (g *Gate) DefaultCheck(ev *key.Event) bool {
	if ev == nil || ev.Target == nil {
		return false
	}
	target := ev.Target
	if target.IsDocumentRoot() {
		return true
	}

	g.mu.RLock()
	classes := g.opts.EditableClasses
	root := g.opts.Root
	g.mu.RUnlock()

	for _, c := range classes {
		if target.HasClass(c) {
			return true
		}
	}
	return root != nil && root.Contains(target)
}

// SetEnableCheck replaces the enable check. Nil restores the default.
func (g *Gate) SetEnableCheck(fn CheckFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opts.EnableCheck = fn
}

// SetRoot sets the canvas root element.
func (g *Gate) SetRoot(root Container) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opts.Root = root
}

// Pause rejects all events until Resume is called.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = true
}

// Resume ends a pause. Events rejected while paused are not replayed.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = false
}

// Paused reports whether the gate is paused.
func (g *Gate) Paused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// SetPointerInCanvas records whether the pointer is over the canvas.
func (g *Gate) SetPointerInCanvas(in bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pointerInCanvas = in
}

// PointerInCanvas reports the last recorded pointer state.
func (g *Gate) PointerInCanvas() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pointerInCanvas
}

// StopPointerCheck lets events through regardless of the pointer position.
// It has no effect unless OnlyWhenPointerInCanvas is enabled.
func (g *Gate) StopPointerCheck() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.opts.OnlyWhenPointerInCanvas {
		return
	}
	g.suppressPointer = true
}

// ResumePointerCheck undoes StopPointerCheck.
// It has no effect unless OnlyWhenPointerInCanvas is enabled.
func (g *Gate) ResumePointerCheck() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.opts.OnlyWhenPointerInCanvas {
		return
	}
	g.suppressPointer = false
}

// PointerCheckSuppressed reports whether StopPointerCheck is in effect.
func (g *Gate) PointerCheckSuppressed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.suppressPointer
}

// OnlyWhenPointerInCanvas reports whether pointer gating is enabled.
func (g *Gate) OnlyWhenPointerInCanvas() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.opts.OnlyWhenPointerInCanvas
}
