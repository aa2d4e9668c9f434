package lua

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/canvaskeys/internal/input/key"
	"github.com/dshills/canvaskeys/internal/input/keymap"
)

// ModuleName is the global and require name of the shortcut module.
const ModuleName = "shortcut"

// Target is the dispatcher surface exposed to scripts.
type Target interface {
	AddShortcut(keys string, cmd *keymap.Command)
	RemoveShortcut(keys string, cmd *keymap.Command)
	HasShortcut(keys string) bool
	Pause()
	Recovery()
	Save()
	Restore()
	ExtendKeyMap(name string, code key.Code)
}

// Module implements the shortcut API for Lua scripts.
//
//	shortcut.add(keys, fn [, name]) -> name
//	shortcut.remove(keys [, fn])
//	shortcut.has(keys) -> boolean
//	shortcut.pause()
//	shortcut.recovery()
//	shortcut.save()
//	shortcut.restore()
//	shortcut.extend(name, code)
type Module struct {
	state  *State
	target Target
	logger zerolog.Logger
	source string

	mu   sync.Mutex
	regs []registration
}

// registration ties a Lua function to the command wrapping it.
type registration struct {
	keys string
	fn   *lua.LFunction
	cmd  *keymap.Command
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithLogger sets the logger for handler errors.
func WithLogger(logger zerolog.Logger) ModuleOption {
	return func(m *Module) {
		m.logger = logger
	}
}

// WithSource names the script in command names, e.g. "init.lua".
func WithSource(source string) ModuleOption {
	return func(m *Module) {
		m.source = source
	}
}

// NewModule creates the shortcut module and registers it in state.
func NewModule(state *State, target Target, opts ...ModuleOption) *Module {
	m := &Module{
		state:  state,
		target: target,
		logger: zerolog.Nop(),
		source: "lua",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("component", "lua").Logger()

	state.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"add":      m.add,
		"remove":   m.remove,
		"has":      m.has,
		"pause":    m.pause,
		"recovery": m.recovery,
		"save":     m.save,
		"restore":  m.restore,
		"extend":   m.extend,
	})
	return m
}

// add(keys, fn [, name]) -> name
// Binds fn to keys. The returned name identifies the command in logs.
func (m *Module) add(L *lua.LState) int {
	keys := L.CheckString(1)
	fn := L.CheckFunction(2)
	name := L.OptString(3, "")

	if strings.TrimSpace(keys) == "" {
		L.ArgError(1, "keys cannot be empty")
		return 0
	}
	if name == "" {
		name = fmt.Sprintf("%s:%s", m.source, keys)
	}

	cmd := keymap.NewCommand(name, m.invoker(name, fn))
	m.mu.Lock()
	m.regs = append(m.regs, registration{keys: keys, fn: fn, cmd: cmd})
	m.mu.Unlock()

	m.target.AddShortcut(keys, cmd)
	L.Push(lua.LString(name))
	return 1
}

// invoker returns the Go callback that runs fn when the chord fires.
func (m *Module) invoker(name string, fn *lua.LFunction) func() {
	return func() {
		if err := m.state.CallFunction(fn); err != nil {
			m.logger.Error().Err(err).Str("command", name).Msg("lua shortcut handler failed")
		}
	}
}

// remove(keys [, fn])
// Without fn every handler bound to keys is removed, including handlers
// registered from Go.
func (m *Module) remove(L *lua.LState) int {
	keys := L.CheckString(1)
	fn := L.OptFunction(2, nil)

	m.mu.Lock()
	var cmds []*keymap.Command
	kept := m.regs[:0]
	for _, r := range m.regs {
		if r.keys == keys && (fn == nil || r.fn == fn) {
			cmds = append(cmds, r.cmd)
			continue
		}
		kept = append(kept, r)
	}
	m.regs = kept
	m.mu.Unlock()

	if fn == nil {
		m.target.RemoveShortcut(keys, nil)
		return 0
	}
	for _, cmd := range cmds {
		m.target.RemoveShortcut(keys, cmd)
	}
	return 0
}

// has(keys) -> boolean
func (m *Module) has(L *lua.LState) int {
	keys := L.CheckString(1)
	L.Push(lua.LBool(m.target.HasShortcut(keys)))
	return 1
}

func (m *Module) pause(*lua.LState) int {
	m.target.Pause()
	return 0
}

func (m *Module) recovery(*lua.LState) int {
	m.target.Recovery()
	return 0
}

func (m *Module) save(*lua.LState) int {
	m.target.Save()
	return 0
}

func (m *Module) restore(*lua.LState) int {
	m.target.Restore()
	return 0
}

// extend(name, code)
// Adds or replaces a key name in the key table.
func (m *Module) extend(L *lua.LState) int {
	name := L.CheckString(1)
	code := L.CheckInt(2)
	if name == "" {
		L.ArgError(1, "name cannot be empty")
		return 0
	}
	m.target.ExtendKeyMap(name, key.Code(code))
	return 0
}

// Unbind removes every shortcut this module registered.
func (m *Module) Unbind() {
	m.mu.Lock()
	regs := m.regs
	m.regs = nil
	m.mu.Unlock()

	for _, r := range regs {
		m.target.RemoveShortcut(r.keys, r.cmd)
	}
}

// Len returns the number of live registrations.
func (m *Module) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regs)
}
