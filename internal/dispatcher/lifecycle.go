package dispatcher

import (
	"context"
	"fmt"

	"github.com/dshills/canvaskeys/internal/event"
	"github.com/dshills/canvaskeys/internal/input/key"
)

// Attach subscribes the dispatcher to the host topics on bus.
func (d *Dispatcher) Attach(bus *event.Bus) error {
	if bus == nil {
		return ErrNilBus
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bus != nil {
		return ErrAlreadyAttached
	}

	handlers := []struct {
		topic    event.Topic
		fn       event.HandlerFunc
		priority event.Priority
	}{
		{event.TopicPointerEnter, d.onPointer(true), event.PriorityHigh},
		{event.TopicPointerLeave, d.onPointer(false), event.PriorityHigh},
		{event.TopicKeyDown, d.onKeyDown, event.PriorityNormal},
		{event.TopicBeforeDestroy, d.onBeforeDestroy, event.PriorityNormal},
	}

	subs := make([]*event.Subscription, 0, len(handlers))
	for _, h := range handlers {
		sub, err := bus.Subscribe(h.topic, h.fn, event.WithPriority(h.priority))
		if err != nil {
			for _, s := range subs {
				s.Cancel()
			}
			return fmt.Errorf("dispatcher: subscribing to %s: %w", h.topic, err)
		}
		subs = append(subs, sub)
	}

	d.bus = bus
	d.subs = subs
	d.logger.Debug().Int("subscriptions", len(subs)).Msg("attached to host bus")
	return nil
}

// Detach removes every subscription made by Attach.
// It is safe to call more than once, and from a bus handler.
func (d *Dispatcher) Detach() {
	d.mu.Lock()
	subs := d.subs
	wasAttached := d.bus != nil
	d.bus = nil
	d.subs = nil
	d.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
	if wasAttached {
		d.logger.Debug().Msg("detached from host bus")
	}
}

// Attached reports whether the dispatcher is subscribed to a bus.
func (d *Dispatcher) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bus != nil
}

func (d *Dispatcher) onKeyDown(_ context.Context, ev event.Event) error {
	kev, ok := ev.Payload.(*key.Event)
	if !ok || kev == nil {
		return fmt.Errorf("%w: %T", ErrNotKeyEvent, ev.Payload)
	}
	d.HandleKeyDown(kev)
	return nil
}

func (d *Dispatcher) onPointer(in bool) event.HandlerFunc {
	return func(context.Context, event.Event) error {
		d.gate.SetPointerInCanvas(in)
		return nil
	}
}

func (d *Dispatcher) onBeforeDestroy(context.Context, event.Event) error {
	d.Detach()
	return nil
}
