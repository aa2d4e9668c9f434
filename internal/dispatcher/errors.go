package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrAlreadyAttached indicates Attach was called while attached.
	ErrAlreadyAttached = errors.New("dispatcher: already attached to a bus")

	// ErrNilBus indicates Attach was called with a nil bus.
	ErrNilBus = errors.New("dispatcher: nil bus")

	// ErrNotKeyEvent indicates a keydown event carried an unexpected payload.
	ErrNotKeyEvent = errors.New("dispatcher: keydown payload is not a key event")
)
