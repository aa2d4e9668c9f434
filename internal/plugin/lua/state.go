package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single script or handler run.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua with a mutex and an execution timeout.
//
// gopher-lua's LState is not goroutine-safe. Every entry point locks mu,
// so scripts and the Lua handlers they register never run concurrently.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	sandbox          *Sandbox
	closed           bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for Lua calls.
// Zero disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	state.L = L
	openSafeLibraries(L)

	state.sandbox = NewSandbox(L)
	state.sandbox.Install()
	return state
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug.
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	return s.run(func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// CallFunction calls fn with args in protected mode, discarding results.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) error {
	return s.run(func(L *lua.LState) error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	})
}

// run executes fn under the lock with the execution timeout applied.
func (s *State) run(fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()

		defer func() {
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
			}
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn(s.L)
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// RegisterModule exposes funcs as a global table and as a module that
// require(name) returns.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
	s.L.PreloadModule(name, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	s.sandbox.Allow(name)
}

// Sandbox returns the sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
