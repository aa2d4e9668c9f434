package dispatcher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/canvaskeys/internal/dispatcher"
	"github.com/dshills/canvaskeys/internal/event"
	"github.com/dshills/canvaskeys/internal/input/key"
)

func attach(t *testing.T, cfg dispatcher.Config) (*dispatcher.Dispatcher, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	d := dispatcher.New(cfg)
	if err := d.Attach(bus); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	return d, bus
}

func TestAttachRoutesKeyDown(t *testing.T) {
	d, bus := attach(t, dispatcher.DefaultConfig())
	calls := 0
	d.AddShortcutFunc("Enter", "a", counter(&calls))

	ev := press(codeEnter, key.ModNone)
	if err := bus.Publish(context.Background(), event.TopicKeyDown, ev); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !ev.DefaultPrevented() {
		t.Error("matched event should be default-prevented")
	}
}

func TestAttachTwice(t *testing.T) {
	d, bus := attach(t, dispatcher.DefaultConfig())

	if err := d.Attach(bus); !errors.Is(err, dispatcher.ErrAlreadyAttached) {
		t.Errorf("second Attach() error = %v, want ErrAlreadyAttached", err)
	}
	if err := dispatcher.NewWithDefaults().Attach(nil); !errors.Is(err, dispatcher.ErrNilBus) {
		t.Errorf("Attach(nil) error = %v, want ErrNilBus", err)
	}
}

func TestPointerEvents(t *testing.T) {
	d, bus := attach(t, dispatcher.DefaultConfig().WithPointerGating(true))
	calls := 0
	d.AddShortcutFunc("Enter", "a", counter(&calls))
	ctx := context.Background()

	bus.Publish(ctx, event.TopicKeyDown, press(codeEnter, key.ModNone))
	if calls != 0 {
		t.Fatal("pointer starts outside the canvas")
	}

	bus.Publish(ctx, event.TopicPointerEnter, event.PointerPayload{X: 1, Y: 1})
	bus.Publish(ctx, event.TopicKeyDown, press(codeEnter, key.ModNone))
	if calls != 1 {
		t.Fatalf("calls = %d after pointer enter, want 1", calls)
	}

	bus.Publish(ctx, event.TopicPointerLeave, nil)
	bus.Publish(ctx, event.TopicKeyDown, press(codeEnter, key.ModNone))
	if calls != 1 {
		t.Errorf("calls = %d after pointer leave, want 1", calls)
	}
}

func TestDetachIdempotent(t *testing.T) {
	d, bus := attach(t, dispatcher.DefaultConfig())
	calls := 0
	d.AddShortcutFunc("Enter", "a", counter(&calls))

	d.Detach()
	d.Detach()

	if d.Attached() {
		t.Error("Attached() = true after Detach")
	}
	if bus.Len() != 0 {
		t.Errorf("bus still has %d subscriptions", bus.Len())
	}
	bus.Publish(context.Background(), event.TopicKeyDown, press(codeEnter, key.ModNone))
	if calls != 0 {
		t.Error("detached dispatcher should not receive events")
	}

	if err := d.Attach(bus); err != nil {
		t.Errorf("re-Attach() error = %v", err)
	}
}

func TestDestroyDetaches(t *testing.T) {
	d, bus := attach(t, dispatcher.DefaultConfig())
	ctx := context.Background()

	if err := bus.Publish(ctx, event.TopicBeforeDestroy, nil); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if d.Attached() {
		t.Error("destroy should detach the dispatcher")
	}
	if bus.Len() != 0 {
		t.Errorf("bus still has %d subscriptions", bus.Len())
	}

	// A second destroy finds nothing to detach.
	if err := bus.Publish(ctx, event.TopicBeforeDestroy, nil); err != nil {
		t.Errorf("second destroy error = %v", err)
	}
	d.Detach()
}

func TestBadKeyDownPayload(t *testing.T) {
	_, bus := attach(t, dispatcher.DefaultConfig())

	err := bus.Publish(context.Background(), event.TopicKeyDown, "not an event")
	if !errors.Is(err, dispatcher.ErrNotKeyEvent) {
		t.Errorf("error = %v, want ErrNotKeyEvent", err)
	}
}

func TestShortcutFiredPublished(t *testing.T) {
	d, bus := attach(t, dispatcher.DefaultConfig())
	d.AddShortcutFunc("Control+c", "node.copy", nil)

	var fired []event.ShortcutFired
	bus.Subscribe(event.TopicShortcutFired, func(_ context.Context, ev event.Event) error {
		fired = append(fired, ev.Payload.(event.ShortcutFired))
		return nil
	})

	bus.Publish(context.Background(), event.TopicKeyDown, press(codeC, key.ModCtrl))
	if len(fired) != 1 {
		t.Fatalf("fired = %v, want one event", fired)
	}
	if fired[0].Keys != "Control+c" || len(fired[0].Commands) != 1 || fired[0].Commands[0] != "node.copy" {
		t.Errorf("fired[0] = %+v", fired[0])
	}
}
