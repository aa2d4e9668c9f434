package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNotRunning indicates the application was shut down.
	ErrNotRunning = errors.New("application not running")

	// ErrNoKeymap indicates a reload was requested without a keymap file.
	ErrNoKeymap = errors.New("no keymap file configured")
)

// InitError reports a component that failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ComponentError represents an error from a specific component after
// startup.
type ComponentError struct {
	Component string // Component name (e.g., "keymap", "lua", "watcher")
	Action    string // Action being performed
	Err       error  // Underlying error
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Action != "" {
		return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Component, e.Err)
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
