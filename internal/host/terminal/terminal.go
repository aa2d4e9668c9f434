package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/canvaskeys/internal/event"
	"github.com/dshills/canvaskeys/internal/host"
	"github.com/dshills/canvaskeys/internal/input/key"
)

// ErrClosed is returned by Run after Shutdown.
var ErrClosed = errors.New("terminal: closed")

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// IsEmpty reports whether r covers no cells.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Terminal hosts the canvas in a tcell screen. Key presses are published
// on the bus as window.keydown and mouse motion as pointer enter/leave.
type Terminal struct {
	mu sync.Mutex

	screen tcell.Screen
	bus    *event.Bus
	logger zerolog.Logger

	target   key.Target
	canvas   Rect
	fitted   bool
	quitKey  tcell.Key
	inCanvas bool
	status   string

	sub    *event.Subscription
	closed bool
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithScreen uses screen instead of the default terminal screen.
func WithScreen(screen tcell.Screen) Option {
	return func(t *Terminal) {
		t.screen = screen
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Terminal) {
		t.logger = logger
	}
}

// WithTarget sets the target attached to every key event.
func WithTarget(target key.Target) Option {
	return func(t *Terminal) {
		t.target = target
	}
}

// WithCanvas fixes the canvas rectangle. Without it the canvas fills the
// screen above the status line.
func WithCanvas(r Rect) Option {
	return func(t *Terminal) {
		t.canvas = r
		t.fitted = true
	}
}

// WithQuitKey sets the key that ends Run. The default is Ctrl+Q.
func WithQuitKey(k tcell.Key) Option {
	return func(t *Terminal) {
		t.quitKey = k
	}
}

// New creates a terminal host publishing to bus.
func New(bus *event.Bus, opts ...Option) (*Terminal, error) {
	if bus == nil {
		return nil, errors.New("terminal: nil bus")
	}
	t := &Terminal{
		bus:     bus,
		logger:  zerolog.Nop(),
		quitKey: tcell.KeyCtrlQ,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With().Str("component", "terminal").Logger()

	if t.target == nil {
		t.target = host.NewDocument()
	}
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("terminal: creating screen: %w", err)
		}
		t.screen = screen
	}
	return t, nil
}

// Init initializes the screen and starts showing fired shortcuts.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("terminal: init: %w", err)
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()

	sub, err := t.bus.Subscribe(event.TopicShortcutFired, t.onShortcutFired, event.WithPriority(event.PriorityLow))
	if err != nil {
		t.screen.Fini()
		return fmt.Errorf("terminal: subscribing: %w", err)
	}
	t.sub = sub
	t.status = "ready"
	t.drawLocked()
	return nil
}

// Run polls screen events until the quit key, ctx cancellation or Shutdown.
func (t *Terminal) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
	})
	defer stop()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return ErrClosed
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if quit := t.Handle(ctx, ev); quit {
			return nil
		}
	}
}

// Handle processes one screen event and reports whether it was the quit key.
func (t *Terminal) Handle(ctx context.Context, ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if t.isQuit(e) {
			return true
		}
		t.handleKey(ctx, e)

	case *tcell.EventMouse:
		x, y := e.Position()
		t.handleMouse(ctx, x, y)

	case *tcell.EventResize:
		t.mu.Lock()
		t.screen.Sync()
		t.drawLocked()
		t.mu.Unlock()
	}
	return false
}

// isQuit also accepts Ctrl-letter quit keys reported as a rune with ModCtrl.
func (t *Terminal) isQuit(e *tcell.EventKey) bool {
	if e.Key() == t.quitKey {
		return true
	}
	if t.quitKey < tcell.KeyCtrlA || t.quitKey > tcell.KeyCtrlZ {
		return false
	}
	letter := 'a' + rune(t.quitKey-tcell.KeyCtrlA)
	return e.Key() == tcell.KeyRune && e.Modifiers()&tcell.ModCtrl != 0 && unicode.ToLower(e.Rune()) == letter
}

func (t *Terminal) handleKey(ctx context.Context, e *tcell.EventKey) {
	kev, ok := ConvertKey(e, t.target)
	if !ok {
		t.logger.Debug().Str("key", e.Name()).Msg("key has no code")
		return
	}
	if err := t.bus.Publish(ctx, event.TopicKeyDown, kev); err != nil {
		t.logger.Warn().Err(err).Msg("keydown delivery failed")
	}
}

func (t *Terminal) handleMouse(ctx context.Context, x, y int) {
	t.mu.Lock()
	in := t.canvasLocked().Contains(x, y)
	changed := in != t.inCanvas
	t.inCanvas = in
	t.mu.Unlock()

	if !changed {
		return
	}
	topic := event.TopicPointerLeave
	if in {
		topic = event.TopicPointerEnter
	}
	if err := t.bus.Publish(ctx, topic, event.PointerPayload{X: x, Y: y}); err != nil {
		t.logger.Warn().Err(err).Str("topic", topic.String()).Msg("pointer delivery failed")
	}
}

func (t *Terminal) onShortcutFired(_ context.Context, ev event.Event) error {
	fired, ok := ev.Payload.(event.ShortcutFired)
	if !ok {
		return nil
	}
	t.SetStatus(formatFired(fired))
	return nil
}

func formatFired(f event.ShortcutFired) string {
	if len(f.Commands) == 0 {
		return f.Keys
	}
	return f.Keys + ": " + strings.Join(f.Commands, ", ")
}

// SetStatus replaces the status line text and redraws.
func (t *Terminal) SetStatus(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = s
	if !t.closed {
		t.drawLocked()
	}
}

// Status returns the status line text.
func (t *Terminal) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// PointerInCanvas reports whether the last mouse position was inside the canvas.
func (t *Terminal) PointerInCanvas() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inCanvas
}

// Canvas returns the current canvas rectangle.
func (t *Terminal) Canvas() Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canvasLocked()
}

func (t *Terminal) canvasLocked() Rect {
	if t.fitted {
		return t.canvas
	}
	w, h := t.screen.Size()
	return Rect{Width: w, Height: h - 1}
}

var (
	canvasStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

func (t *Terminal) drawLocked() {
	t.screen.Clear()
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	c := t.canvasLocked()
	for y := c.Y; y < c.Y+c.Height && y < h-1; y++ {
		for x := c.X; x < c.X+c.Width && x < w; x++ {
			if x >= 0 && y >= 0 {
				t.screen.SetContent(x, y, '.', nil, canvasStyle)
			}
		}
	}

	line := []rune(" " + t.status)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = line[x]
		}
		t.screen.SetContent(x, h-1, r, nil, statusStyle)
	}
	t.screen.Show()
}

// Shutdown publishes canvas.destroy.before and releases the screen.
// It is safe to call more than once.
func (t *Terminal) Shutdown(ctx context.Context) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	sub := t.sub
	t.sub = nil
	t.mu.Unlock()

	if err := t.bus.Publish(ctx, event.TopicBeforeDestroy, nil); err != nil {
		t.logger.Warn().Err(err).Msg("destroy delivery failed")
	}
	// A nil subscription means Init never succeeded.
	if sub != nil {
		sub.Cancel()
		t.screen.Fini()
	}
}
