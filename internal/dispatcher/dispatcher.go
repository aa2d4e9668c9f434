package dispatcher

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/canvaskeys/internal/dispatcher/hook"
	"github.com/dshills/canvaskeys/internal/event"
	"github.com/dshills/canvaskeys/internal/input/gate"
	"github.com/dshills/canvaskeys/internal/input/key"
	"github.com/dshills/canvaskeys/internal/input/keymap"
)

// Dispatcher matches key events against registered shortcuts and runs them.
type Dispatcher struct {
	// mu guards the bus attachment.
	mu sync.Mutex

	// Core components
	table    *key.Table
	registry *keymap.Registry
	gate     *gate.Gate
	hooks    *hook.Manager

	// Configuration
	config Config
	logger zerolog.Logger

	// Metrics, nil unless enabled.
	metrics *Metrics

	// Bus attachment
	bus  *event.Bus
	subs []*event.Subscription
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithTable shares a key table instead of creating a default one.
func WithTable(table *key.Table) Option {
	return func(d *Dispatcher) {
		d.table = table
	}
}

// WithHooks shares a hook manager instead of creating an empty one.
func WithHooks(m *hook.Manager) Option {
	return func(d *Dispatcher) {
		d.hooks = m
	}
}

// New creates a new dispatcher with the given configuration.
func New(config Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		config: config,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With().Str("component", "dispatcher").Logger()

	if d.table == nil {
		d.table = key.NewTable()
	}
	if d.hooks == nil {
		d.hooks = hook.NewManager()
	}
	d.registry = keymap.NewRegistry(d.table, keymap.WithLogger(d.logger))
	d.gate = gate.New(gate.Options{
		OnlyWhenPointerInCanvas: config.OnlyWhenPointerInCanvas,
		EnableCheck:             config.CustomCheckEnableShortcut,
		EditableClasses:         config.EditableClasses,
		Root:                    config.Root,
	})

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// Table returns the key table.
func (d *Dispatcher) Table() *key.Table { return d.table }

// Registry returns the shortcut registry.
func (d *Dispatcher) Registry() *keymap.Registry { return d.registry }

// Gate returns the event gate.
func (d *Dispatcher) Gate() *gate.Gate { return d.gate }

// Hooks returns the hook manager.
func (d *Dispatcher) Hooks() *hook.Manager { return d.hooks }

// Metrics returns the metrics collector, or nil if disabled.
func (d *Dispatcher) Metrics() *Metrics { return d.metrics }

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config { return d.config }

// HandleKeyDown dispatches a key-down event.
func (d *Dispatcher) HandleKeyDown(ev *key.Event) {
	if !d.gate.ShouldProcess(ev) {
		if d.metrics != nil {
			d.metrics.RecordEvent(true)
		}
		return
	}
	if d.metrics != nil {
		d.metrics.RecordEvent(false)
	}

	codes := key.EventCodes(d.table, ev)
	if e := d.logger.Debug(); e.Enabled() {
		e.Str("chord", d.table.Format(codes)).Msg("key down")
	}
	for _, entry := range d.registry.Entries() {
		if !key.Matches(codes, entry.Descriptor) {
			continue
		}
		d.runEntry(ev, entry)
	}
}

// runEntry handles one matched chord. With panic recovery enabled a panic in
// a hook or callback ends this chord only.
func (d *Dispatcher) runEntry(ev *key.Event, entry keymap.Entry) {
	if d.config.RecoverFromPanic {
		defer d.recoverEntry(entry.Keys)
	}

	if !d.isPaste(ev) {
		ev.StopPropagation()
		ev.PreventDefault()
	}

	// An earlier command may have removed this chord.
	cmds, ok := d.registry.Commands(entry.ID())
	if !ok {
		return
	}

	run := &hook.Run{
		Keys:       entry.Keys,
		Descriptor: entry.Descriptor,
		Commands:   commandNames(cmds),
		Selection:  d.selection(),
		Event:      ev,
	}

	if veto, by := d.hooks.RunBefore(run); veto {
		d.logger.Debug().Str("keys", entry.Keys).Str("hook", by).Msg("shortcut vetoed by hook")
		d.recordVeto(entry.Keys)
		return
	}
	if fn := d.config.BeforeShortcutRun; fn != nil && fn(entry.Keys, slices.Clone(run.Selection)) {
		d.logger.Debug().Str("keys", entry.Keys).Msg("shortcut vetoed by callback")
		d.recordVeto(entry.Keys)
		return
	}

	result := d.execute(run, cmds)
	d.hooks.RunAfter(run, result)
	if d.metrics != nil {
		d.metrics.RecordRun(entry.Keys, result.Duration, result.Panicked)
	}
	d.publishFired(run, result)
}

// execute runs the commands in order. With panic recovery enabled a panic
// ends this chord's run and is reported in the result.
func (d *Dispatcher) execute(run *hook.Run, cmds []*keymap.Command) (result hook.Result) {
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
	}()

	if d.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				result.Panicked = true
				result.Recovered = r
				d.logger.Error().
					Str("keys", run.Keys).
					Str("command", run.Commands[result.Ran]).
					Interface("panic", r).
					Msg("shortcut command panicked")
			}
		}()
	}

	for _, cmd := range cmds {
		cmd.Execute()
		result.Ran++
	}
	return result
}

// recoverEntry recovers a panic raised outside the chord's commands.
func (d *Dispatcher) recoverEntry(keys string) {
	r := recover()
	if r == nil {
		return
	}
	d.logger.Error().
		Str("keys", keys).
		Interface("panic", r).
		Msg("shortcut dispatch panicked")
	if d.metrics != nil {
		d.metrics.RecordPanic(keys)
	}
}

// isPaste reports whether ev matches the configured paste chord.
// The chord is resolved on every call so table changes apply.
func (d *Dispatcher) isPaste(ev *key.Event) bool {
	if d.config.PasteShortcut == "" {
		return false
	}
	p := key.ParseDescriptor(d.table, d.config.PasteShortcut)
	if len(p.Descriptor) == 0 {
		return false
	}
	return key.MatchEvent(d.table, ev, p.Descriptor)
}

func (d *Dispatcher) selection() []string {
	if d.config.Selection == nil {
		return nil
	}
	return slices.Clone(d.config.Selection())
}

func (d *Dispatcher) recordVeto(keys string) {
	if d.metrics != nil {
		d.metrics.RecordVeto(keys)
	}
}

func (d *Dispatcher) publishFired(run *hook.Run, result hook.Result) {
	d.mu.Lock()
	bus := d.bus
	d.mu.Unlock()
	if bus == nil {
		return
	}

	fired := event.ShortcutFired{Keys: run.Keys, Commands: run.Commands[:result.Ran]}
	if err := bus.Publish(context.Background(), event.TopicShortcutFired, fired); err != nil {
		d.logger.Warn().Err(err).Str("keys", run.Keys).Msg("publishing shortcut.fired failed")
	}
}

func commandNames(cmds []*keymap.Command) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.String()
	}
	return names
}

// AddShortcut binds cmd to every descriptor in keys.
func (d *Dispatcher) AddShortcut(keys string, cmd *keymap.Command) {
	d.registry.Add(keys, cmd)
}

// AddShortcutFunc wraps fn in a named command, binds it and returns it.
func (d *Dispatcher) AddShortcutFunc(keys, name string, fn func()) *keymap.Command {
	return d.registry.AddFunc(keys, name, fn)
}

// RemoveShortcut unbinds cmd from keys, or every command when cmd is nil.
func (d *Dispatcher) RemoveShortcut(keys string, cmd *keymap.Command) {
	d.registry.Remove(keys, cmd)
}

// GetShortcutFn returns the commands bound to the last descriptor of keys.
func (d *Dispatcher) GetShortcutFn(keys string) []*keymap.Command {
	return d.registry.Handlers(keys)
}

// HasShortcut reports whether any descriptor of keys is bound.
func (d *Dispatcher) HasShortcut(keys string) bool {
	return d.registry.Has(keys)
}

// Pause ignores all key events until Recovery.
func (d *Dispatcher) Pause() {
	d.gate.Pause()
}

// Recovery resumes after Pause. Events received while paused are dropped.
func (d *Dispatcher) Recovery() {
	d.gate.Resume()
}

// Paused reports whether the dispatcher is paused.
func (d *Dispatcher) Paused() bool {
	return d.gate.Paused()
}

// Save stashes all shortcuts and leaves the registry empty.
// Nothing happens if a stash already exists.
func (d *Dispatcher) Save() {
	d.registry.Save()
}

// Restore replaces the current shortcuts with the stash and clears it.
// Nothing happens if there is no stash.
func (d *Dispatcher) Restore() {
	d.registry.Restore()
}

// StopCheckInCanvas lets events through while the pointer is outside the
// canvas. It has no effect unless pointer gating is enabled.
func (d *Dispatcher) StopCheckInCanvas() {
	d.gate.StopPointerCheck()
}

// RecoveryCheckInCanvas undoes StopCheckInCanvas.
func (d *Dispatcher) RecoveryCheckInCanvas() {
	d.gate.ResumePointerCheck()
}

// ExtendKeyMap adds or replaces a key name in the table.
// Shortcuts registered earlier keep the codes they were resolved with.
func (d *Dispatcher) ExtendKeyMap(name string, code key.Code) {
	d.table.Set(name, code)
}

// RemoveKeyMap removes a key name from the table if present.
func (d *Dispatcher) RemoveKeyMap(name string) {
	d.table.Remove(name)
}
