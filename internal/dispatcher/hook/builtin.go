package hook

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Standard hook priorities.
const (
	PriorityAudit    = 1000 // Runs first (before) / last (after)
	PriorityReadOnly = 800
	PriorityUser     = 100
)

// AuditHook logs every matched chord and its outcome at debug level.
type AuditHook struct {
	logger zerolog.Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger zerolog.Logger) *AuditHook {
	return &AuditHook{logger: logger.With().Str("hook", "audit").Logger()}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// BeforeRun logs the matched chord. It never vetoes.
func (h *AuditHook) BeforeRun(run *Run) bool {
	h.logger.Debug().
		Str("keys", run.Keys).
		Strs("commands", run.Commands).
		Int("selected", len(run.Selection)).
		Msg("shortcut matched")
	return false
}

// AfterRun logs the run result.
func (h *AuditHook) AfterRun(run *Run, result Result) {
	if result.Panicked {
		h.logger.Error().
			Str("keys", run.Keys).
			Interface("panic", result.Recovered).
			Int("ran", result.Ran).
			Msg("shortcut command panicked")
		return
	}
	h.logger.Debug().
		Str("keys", run.Keys).
		Int("ran", result.Ran).
		Dur("duration", result.Duration).
		Msg("shortcut complete")
}

// ReadOnlyHook vetoes runs that include a mutating command while the
// canvas is read-only.
type ReadOnlyHook struct {
	mu       sync.RWMutex
	readOnly bool
	mutating map[string]struct{}
}

// NewReadOnlyHook creates a read-only enforcement hook. It starts writable.
func NewReadOnlyHook(mutating []string) *ReadOnlyHook {
	h := &ReadOnlyHook{mutating: make(map[string]struct{}, len(mutating))}
	for _, name := range mutating {
		h.mutating[name] = struct{}{}
	}
	return h
}

// Name implements Hook.
func (h *ReadOnlyHook) Name() string { return "read-only" }

// Priority implements Hook.
func (h *ReadOnlyHook) Priority() int { return PriorityReadOnly }

// SetReadOnly toggles read-only mode.
func (h *ReadOnlyHook) SetReadOnly(ro bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readOnly = ro
}

// ReadOnly reports whether read-only mode is on.
func (h *ReadOnlyHook) ReadOnly() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.readOnly
}

// BeforeRun vetoes the run if read-only and any command mutates.
func (h *ReadOnlyHook) BeforeRun(run *Run) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.readOnly {
		return false
	}
	for _, name := range run.Commands {
		if _, ok := h.mutating[name]; ok {
			return true
		}
	}
	return false
}

// TimingHook reports how long each chord's commands took.
type TimingHook struct {
	callback func(keys string, duration time.Duration)
}

// NewTimingHook creates a timing hook.
func NewTimingHook(callback func(keys string, duration time.Duration)) *TimingHook {
	return &TimingHook{callback: callback}
}

// Name implements Hook.
func (h *TimingHook) Name() string { return "timing" }

// Priority implements Hook.
func (h *TimingHook) Priority() int { return PriorityAudit }

// AfterRun reports the duration.
func (h *TimingHook) AfterRun(run *Run, result Result) {
	if h.callback != nil {
		h.callback(run.Keys, result.Duration)
	}
}

// SelectionGuardHook vetoes the listed commands when nothing is selected.
type SelectionGuardHook struct {
	needSelection map[string]struct{}
}

// NewSelectionGuardHook creates a hook guarding the named commands.
func NewSelectionGuardHook(commands []string) *SelectionGuardHook {
	h := &SelectionGuardHook{needSelection: make(map[string]struct{}, len(commands))}
	for _, name := range commands {
		h.needSelection[name] = struct{}{}
	}
	return h
}

// Name implements Hook.
func (h *SelectionGuardHook) Name() string { return "selection-guard" }

// Priority implements Hook.
func (h *SelectionGuardHook) Priority() int { return PriorityUser }

// BeforeRun vetoes guarded commands with an empty selection.
func (h *SelectionGuardHook) BeforeRun(run *Run) bool {
	if len(run.Selection) > 0 {
		return false
	}
	for _, name := range run.Commands {
		if _, ok := h.needSelection[name]; ok {
			return true
		}
	}
	return false
}
