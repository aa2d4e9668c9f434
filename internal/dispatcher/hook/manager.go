package hook

import (
	"sort"
	"sync"
)

// Manager manages run hooks with priority-based ordering.
type Manager struct {
	mu     sync.RWMutex
	before []BeforeRunHook
	after  []AfterRunHook
}

// NewManager creates a new hook manager.
func NewManager() *Manager {
	return &Manager{
		before: make([]BeforeRunHook, 0),
		after:  make([]AfterRunHook, 0),
	}
}

// RegisterBefore adds a before-run hook, replacing one with the same name.
func (m *Manager) RegisterBefore(h BeforeRunHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.before {
		if existing.Name() == h.Name() {
			m.before[i] = h
			m.sortBefore()
			return
		}
	}

	m.before = append(m.before, h)
	m.sortBefore()
}

// RegisterAfter adds an after-run hook, replacing one with the same name.
func (m *Manager) RegisterAfter(h AfterRunHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.after {
		if existing.Name() == h.Name() {
			m.after[i] = h
			m.sortAfter()
			return
		}
	}

	m.after = append(m.after, h)
	m.sortAfter()
}

// Register adds a hook to every chain whose interface it implements.
func (m *Manager) Register(h Hook) {
	if b, ok := h.(BeforeRunHook); ok {
		m.RegisterBefore(b)
	}
	if a, ok := h.(AfterRunHook); ok {
		m.RegisterAfter(a)
	}
}

// Unregister removes a hook by name from both chains.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := false
	for i, h := range m.before {
		if h.Name() == name {
			m.before = append(m.before[:i], m.before[i+1:]...)
			removed = true
			break
		}
	}
	for i, h := range m.after {
		if h.Name() == name {
			m.after = append(m.after[:i], m.after[i+1:]...)
			removed = true
			break
		}
	}
	return removed
}

// RunBefore runs the before-run hooks in priority order and stops at the
// first veto, returning the vetoing hook's name.
func (m *Manager) RunBefore(run *Run) (veto bool, by string) {
	m.mu.RLock()
	hooks := make([]BeforeRunHook, len(m.before))
	copy(hooks, m.before)
	m.mu.RUnlock()

	for _, h := range hooks {
		if h.BeforeRun(run) {
			return true, h.Name()
		}
	}
	return false, ""
}

// RunAfter runs all after-run hooks from lowest to highest priority.
func (m *Manager) RunAfter(run *Run, result Result) {
	m.mu.RLock()
	hooks := make([]AfterRunHook, len(m.after))
	copy(hooks, m.after)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.AfterRun(run, result)
	}
}

// BeforeNames returns the names of the before-run hooks in run order.
func (m *Manager) BeforeNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.before))
	for i, h := range m.before {
		names[i] = h.Name()
	}
	return names
}

// AfterNames returns the names of the after-run hooks in run order.
func (m *Manager) AfterNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.after))
	for i, h := range m.after {
		names[i] = h.Name()
	}
	return names
}

// Len returns the total number of registered hooks across both chains.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.before) + len(m.after)
}

// sortBefore sorts before-run hooks by priority descending.
func (m *Manager) sortBefore() {
	sort.SliceStable(m.before, func(i, j int) bool {
		return m.before[i].Priority() > m.before[j].Priority()
	})
}

// sortAfter sorts after-run hooks by priority ascending.
func (m *Manager) sortAfter() {
	sort.SliceStable(m.after, func(i, j int) bool {
		return m.after[i].Priority() < m.after[j].Priority()
	})
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.before = m.before[:0]
	m.after = m.after[:0]
}
