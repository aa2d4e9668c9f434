package key

import "time"

// Target is the element a key event was delivered to.
type Target interface {
	// IsDocumentRoot reports whether the target is the document body.
	IsDocumentRoot() bool

	// HasClass reports whether the target carries the class name.
	HasClass(name string) bool
}

// Event represents a single key-down event.
// Handlers receive it by pointer so they can suppress default handling.
type Event struct {
	// Code is the raw key code reported by the host.
	Code Code

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Target is the element that had focus. May be nil.
	Target Target

	// Timestamp is when the event occurred.
	Timestamp time.Time

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(code Code, mods Modifier, target Target) *Event {
	return &Event{
		Code:      code,
		Modifiers: mods,
		Target:    target,
		Timestamp: time.Now(),
	}
}

// PreventDefault marks the host's default action as suppressed.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// StopPropagation marks the event as not propagating further.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}
