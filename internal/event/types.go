package event

import (
	"context"
	"time"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityHigh is for handlers that update state others depend on,
	// such as pointer tracking.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for observers such as status bars and logging.
	PriorityLow Priority = 300
)

// Event is a published message.
type Event struct {
	Topic     Topic
	Payload   any
	Timestamp time.Time
}

// HandlerFunc handles an event.
type HandlerFunc func(ctx context.Context, ev Event) error

// PointerPayload is published with pointer enter and leave events.
type PointerPayload struct {
	X, Y int
}

// ShortcutFired is published after a shortcut's commands ran.
type ShortcutFired struct {
	// Keys is the descriptor spelling that matched.
	Keys string

	// Commands are the names of the commands that ran.
	Commands []string
}
