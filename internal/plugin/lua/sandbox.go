package lua

import (
	"slices"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua scripts to the safe standard libraries and the
// modules registered by the host.
type Sandbox struct {
	L *lua.LState

	mu      sync.RWMutex
	allowed map[string]bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L: L,
		allowed: map[string]bool{
			"string": true,
			"table":  true,
			"math":   true,
		},
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Remove functions that load code from disk or strings
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafeRequire()
}

// installSafeRequire clears the package search paths and replaces require
// with one that only returns allowed modules.
func (s *Sandbox) installSafeRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := s.L.GetGlobal("require")
	if originalRequire == lua.LNil {
		return
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !s.IsAllowed(modName) {
			L.RaiseError("%s: %q", ErrModuleUnavailable, modName)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}

// Allow lets require load the named module.
func (s *Sandbox) Allow(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowed[name] = true
}

// IsAllowed reports whether require may load name.
func (s *Sandbox) IsAllowed(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowed[name]
}

// Allowed returns the allowed module names, sorted.
func (s *Sandbox) Allowed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.allowed))
	for name := range s.allowed {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
