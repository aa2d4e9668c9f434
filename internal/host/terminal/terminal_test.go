package terminal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/canvaskeys/internal/dispatcher"
	"github.com/dshills/canvaskeys/internal/event"
	"github.com/dshills/canvaskeys/internal/host/terminal"
	"github.com/dshills/canvaskeys/internal/input/key"
)

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		code key.Code
		mods key.Modifier
	}{
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), 13, key.ModNone},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), 9, key.ModNone},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), 9, key.ModShift},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), 27, key.ModNone},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), 46, key.ModNone},
		{"f2", tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone), 113, key.ModNone},
		{"ctrl up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModCtrl), 38, key.ModCtrl},
		{"lower rune", tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone), 71, key.ModNone},
		{"upper rune", tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModNone), 71, key.ModShift},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModNone), 55, key.ModNone},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), 32, key.ModNone},
		{"slash", tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone), 191, key.ModNone},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModAlt), 76, key.ModAlt},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), 67, key.ModCtrl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kev, ok := terminal.ConvertKey(tt.ev, nil)
			if !ok {
				t.Fatal("ConvertKey() ok = false")
			}
			if kev.Code != tt.code {
				t.Errorf("Code = %d, want %d", kev.Code, tt.code)
			}
			if kev.Modifiers != tt.mods {
				t.Errorf("Modifiers = %s, want %s", kev.Modifiers, tt.mods)
			}
		})
	}
}

func TestConvertKeyUnknown(t *testing.T) {
	if _, ok := terminal.ConvertKey(tcell.NewEventKey(tcell.KeyRune, '%', tcell.ModNone), nil); ok {
		t.Error("'%' has no key code")
	}
}

func TestRectContains(t *testing.T) {
	r := terminal.Rect{X: 2, Y: 1, Width: 3, Height: 2}
	tests := []struct {
		x, y int
		want bool
	}{
		{2, 1, true},
		{4, 2, true},
		{5, 1, false},
		{2, 3, false},
		{1, 1, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if !(terminal.Rect{Width: 0, Height: 4}).IsEmpty() {
		t.Error("zero-width rect should be empty")
	}
}

func newTerminal(t *testing.T, bus *event.Bus, opts ...terminal.Option) (*terminal.Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	opts = append([]terminal.Option{terminal.WithScreen(screen)}, opts...)
	term, err := terminal.New(bus, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(40, 10)
	t.Cleanup(func() { term.Shutdown(context.Background()) })
	return term, screen
}

func TestNewNilBus(t *testing.T) {
	if _, err := terminal.New(nil); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestKeyPublishesAndShowsStatus(t *testing.T) {
	bus := event.NewBus()
	d := dispatcher.NewWithDefaults()
	if err := d.Attach(bus); err != nil {
		t.Fatal(err)
	}
	calls := 0
	d.AddShortcutFunc("Control+c", "node.copy", func() { calls++ })

	term, screen := newTerminal(t, bus)
	ctx := context.Background()

	if quit := term.Handle(ctx, tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)); quit {
		t.Fatal("Ctrl+C is not the quit key")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got := term.Status(); got != "Control+c: node.copy" {
		t.Errorf("Status() = %q", got)
	}

	_, h := screen.Size()
	r, _, _, _ := screen.GetContent(1, h-1) //nolint:staticcheck // reading back the drawn cell
	if r != 'C' {
		t.Errorf("status cell = %q, want 'C'", r)
	}
}

func TestQuitKey(t *testing.T) {
	term, _ := newTerminal(t, event.NewBus(), terminal.WithQuitKey(tcell.KeyCtrlQ))
	if !term.Handle(context.Background(), tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)) {
		t.Error("Ctrl+Q should quit")
	}
}

func TestPointerTransitions(t *testing.T) {
	bus := event.NewBus()
	var topics []event.Topic
	bus.Subscribe("canvas.pointer.*", func(_ context.Context, ev event.Event) error {
		topics = append(topics, ev.Topic)
		return nil
	})

	term, _ := newTerminal(t, bus, terminal.WithCanvas(terminal.Rect{X: 5, Y: 2, Width: 10, Height: 4}))
	ctx := context.Background()
	move := func(x, y int) {
		term.Handle(ctx, tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
	}

	move(0, 0)
	move(6, 3)
	move(7, 3)
	move(20, 3)

	want := []event.Topic{event.TopicPointerEnter, event.TopicPointerLeave}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topics[%d] = %s, want %s", i, topics[i], want[i])
		}
	}
	if term.PointerInCanvas() {
		t.Error("pointer should be outside the canvas")
	}
}

func TestPointerGatesDispatch(t *testing.T) {
	bus := event.NewBus()
	d := dispatcher.New(dispatcher.DefaultConfig().WithPointerGating(true))
	if err := d.Attach(bus); err != nil {
		t.Fatal(err)
	}
	calls := 0
	d.AddShortcutFunc("Enter", "node.insertSibling", func() { calls++ })

	term, _ := newTerminal(t, bus, terminal.WithCanvas(terminal.Rect{Width: 10, Height: 5}))
	ctx := context.Background()
	enter := tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)

	term.Handle(ctx, tcell.NewEventMouse(20, 8, tcell.ButtonNone, tcell.ModNone))
	term.Handle(ctx, enter)
	term.Handle(ctx, tcell.NewEventMouse(3, 3, tcell.ButtonNone, tcell.ModNone))
	term.Handle(ctx, enter)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDefaultCanvasFillsScreen(t *testing.T) {
	term, _ := newTerminal(t, event.NewBus())
	got := term.Canvas()
	want := terminal.Rect{Width: 40, Height: 9}
	if got != want {
		t.Errorf("Canvas() = %+v, want %+v", got, want)
	}
}

func TestShutdownPublishesDestroy(t *testing.T) {
	bus := event.NewBus()
	d := dispatcher.NewWithDefaults()
	if err := d.Attach(bus); err != nil {
		t.Fatal(err)
	}

	term, _ := newTerminal(t, bus)
	term.Shutdown(context.Background())
	term.Shutdown(context.Background())

	if d.Attached() {
		t.Error("shutdown should detach the dispatcher")
	}
	if bus.Len() != 0 {
		t.Errorf("bus has %d subscriptions after shutdown", bus.Len())
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	term, _ := newTerminal(t, event.NewBus())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- term.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
