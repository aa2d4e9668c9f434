package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event bus.
var (
	// ErrBusClosed is returned when publishing or subscribing on a closed bus.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrInvalidTopic is returned when a topic is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrWildcardPublish is returned when publishing to a wildcard topic.
	ErrWildcardPublish = errors.New("cannot publish to a wildcard topic")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHandlerPanic is matched by PanicError.
	ErrHandlerPanic = errors.New("handler panicked")
)

// HandlerError wraps an error from a handler with additional context.
type HandlerError struct {
	// SubscriptionID is the ID of the subscription whose handler failed.
	SubscriptionID string

	// Topic is the topic that was published.
	Topic Topic

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler error for subscription %s on topic %s: %v", e.SubscriptionID, e.Topic, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic value as an error.
type PanicError struct {
	// SubscriptionID is the ID of the subscription whose handler panicked.
	SubscriptionID string

	// Topic is the topic that was published.
	Topic Topic

	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for subscription %s on topic %s: %v", e.SubscriptionID, e.Topic, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
