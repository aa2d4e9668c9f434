package hook

import (
	"slices"
	"time"

	"github.com/dshills/canvaskeys/internal/input/key"
)

// Run describes a matched chord about to run.
type Run struct {
	// Keys is the descriptor spelling the chord was registered with.
	Keys string

	// Descriptor is the matched code set.
	Descriptor key.Descriptor

	// Commands are the names of the commands that will run, in order.
	Commands []string

	// Selection is a copy of the active selection when the event arrived.
	Selection []string

	// Event is the key event being dispatched.
	Event *key.Event
}

// HasCommand reports whether the run includes a command with name.
func (r *Run) HasCommand(name string) bool {
	return slices.Contains(r.Commands, name)
}

// Result summarizes a completed run.
type Result struct {
	// Ran is the number of commands that completed.
	Ran int

	// Panicked is set when a command panicked and was recovered.
	Panicked bool

	// Recovered is the recovered panic value, if any.
	Recovered any

	// Duration is the wall time spent running the commands.
	Duration time.Duration
}

// Hook is the base interface for all dispatch hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority.
	// Higher values run first for before-run hooks, last for after-run hooks.
	Priority() int
}

// BeforeRunHook is called before a matched chord's commands run.
type BeforeRunHook interface {
	Hook

	// BeforeRun returns true to veto the run.
	BeforeRun(run *Run) (veto bool)
}

// AfterRunHook is called after a chord's commands ran.
// It is not called for vetoed runs.
type AfterRunHook interface {
	Hook

	AfterRun(run *Run, result Result)
}

// BeforeRunFunc wraps a function as a BeforeRunHook.
type BeforeRunFunc struct {
	name     string
	priority int
	fn       func(run *Run) bool
}

// NewBeforeRunFunc creates a new BeforeRunFunc hook.
func NewBeforeRunFunc(name string, priority int, fn func(run *Run) bool) *BeforeRunFunc {
	return &BeforeRunFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *BeforeRunFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *BeforeRunFunc) Priority() int { return f.priority }

// BeforeRun implements BeforeRunHook. A nil function never vetoes.
func (f *BeforeRunFunc) BeforeRun(run *Run) bool {
	if f.fn == nil {
		return false
	}
	return f.fn(run)
}

// AfterRunFunc wraps a function as an AfterRunHook.
type AfterRunFunc struct {
	name     string
	priority int
	fn       func(run *Run, result Result)
}

// NewAfterRunFunc creates a new AfterRunFunc hook.
func NewAfterRunFunc(name string, priority int, fn func(run *Run, result Result)) *AfterRunFunc {
	return &AfterRunFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *AfterRunFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *AfterRunFunc) Priority() int { return f.priority }

// AfterRun implements AfterRunHook.
func (f *AfterRunFunc) AfterRun(run *Run, result Result) {
	if f.fn != nil {
		f.fn(run, result)
	}
}
