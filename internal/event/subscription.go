package event

import (
	"sync"
	"sync/atomic"
)

// Subscription is a handle on a registered handler.
type Subscription struct {
	id       string
	pattern  Topic
	handler  HandlerFunc
	priority Priority
	once     bool

	cancelled atomic.Bool
	onCancel  func(*Subscription)
	cancelMu  sync.Once
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*Subscription)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *Subscription) {
		s.priority = p
	}
}

// WithOnce cancels the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(s *Subscription) {
		s.once = true
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Topic returns the subscribed topic pattern.
func (s *Subscription) Topic() Topic {
	return s.pattern
}

// Priority returns the subscription priority.
func (s *Subscription) Priority() Priority {
	return s.priority
}

// IsActive reports whether the subscription still receives events.
func (s *Subscription) IsActive() bool {
	return !s.cancelled.Load()
}

// Cancel stops delivery and removes the subscription from its bus.
// Calling Cancel more than once is a no-op.
func (s *Subscription) Cancel() {
	s.cancelMu.Do(func() {
		s.cancelled.Store(true)
		if s.onCancel != nil {
			s.onCancel(s)
		}
	})
}
