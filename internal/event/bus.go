package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Bus is a synchronous topic bus. It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	closed bool

	logger zerolog.Logger

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger used for handler failures.
func WithLogger(logger zerolog.Logger) BusOption {
	return func(b *Bus) {
		b.logger = logger.With().Str("component", "event").Logger()
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for topics matching pattern.
// Subscriptions of equal priority run in subscription order.
func (b *Bus) Subscribe(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	s := &Subscription{
		id:       uuid.New().String(),
		pattern:  pattern,
		handler:  fn,
		priority: PriorityNormal,
		onCancel: b.remove,
	}
	for _, opt := range opts {
		opt(s)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	// Insert after every subscription with a priority <= s.priority.
	i, _ := slices.BinarySearchFunc(b.subs, s.priority+1, func(e *Subscription, p Priority) int {
		return int(e.priority) - int(p)
	})
	b.subs = slices.Insert(b.subs, i, s)
	return s, nil
}

// remove deletes a cancelled subscription.
func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = slices.DeleteFunc(b.subs, func(e *Subscription) bool { return e == s })
}

// Publish delivers payload to every active subscription matching t.
// Handler errors and recovered panics are joined into the returned error.
func (b *Bus) Publish(ctx context.Context, t Topic, payload any) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, t)
	}
	if t.IsWildcard() {
		return fmt.Errorf("%w: %q", ErrWildcardPublish, t)
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	targets := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if t.Matches(s.pattern) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	b.eventsPublished.Add(1)
	ev := Event{Topic: t, Payload: payload, Timestamp: time.Now()}

	var errs []error
	for _, s := range targets {
		// Skip subscriptions cancelled by an earlier handler.
		if !s.IsActive() {
			continue
		}
		if s.once {
			s.Cancel()
		}
		if err := b.deliver(ctx, s, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, s *Subscription, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			b.logger.Error().
				Str("subscription", s.id).
				Str("topic", ev.Topic.String()).
				Interface("panic", r).
				Msg("event handler panicked")
			err = &PanicError{SubscriptionID: s.id, Topic: ev.Topic, Value: r}
		}
	}()

	if herr := s.handler(ctx, ev); herr != nil {
		b.handlerErrors.Add(1)
		b.logger.Warn().
			Err(herr).
			Str("subscription", s.id).
			Str("topic", ev.Topic.String()).
			Msg("event handler failed")
		return &HandlerError{SubscriptionID: s.id, Topic: ev.Topic, Err: herr}
	}
	b.eventsDelivered.Add(1)
	return nil
}

// Close cancels every subscription. Later Publish and Subscribe calls
// return ErrBusClosed. Close is idempotent.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats holds bus counters.
type Stats struct {
	EventsPublished uint64
	EventsDelivered uint64
	HandlerErrors   uint64
	HandlerPanics   uint64
	Subscriptions   int
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		EventsPublished: b.eventsPublished.Load(),
		EventsDelivered: b.eventsDelivered.Load(),
		HandlerErrors:   b.handlerErrors.Load(),
		HandlerPanics:   b.handlerPanics.Load(),
		Subscriptions:   b.Len(),
	}
}
