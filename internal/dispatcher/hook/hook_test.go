package hook_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/canvaskeys/internal/dispatcher/hook"
)

func newRun(commands ...string) *hook.Run {
	return &hook.Run{Keys: "Control+c", Commands: commands}
}

// TestBeforeRunFunc verifies the BeforeRunFunc adapter works.
func TestBeforeRunFunc(t *testing.T) {
	called := false
	h := hook.NewBeforeRunFunc("test-before", 100, func(run *hook.Run) bool {
		called = true
		return run.HasCommand("node.copy")
	})

	if h.Name() != "test-before" {
		t.Errorf("expected name 'test-before', got %q", h.Name())
	}
	if h.Priority() != 100 {
		t.Errorf("expected priority 100, got %d", h.Priority())
	}
	if !h.BeforeRun(newRun("node.copy")) {
		t.Error("expected veto for node.copy")
	}
	if !called {
		t.Error("expected BeforeRun to be called")
	}
	if h.BeforeRun(newRun("node.paste")) {
		t.Error("expected no veto for node.paste")
	}

	if hook.NewBeforeRunFunc("nil", 0, nil).BeforeRun(newRun()) {
		t.Error("nil function should never veto")
	}
}

// TestAfterRunFunc verifies the AfterRunFunc adapter works.
func TestAfterRunFunc(t *testing.T) {
	var got hook.Result
	h := hook.NewAfterRunFunc("test-after", 200, func(_ *hook.Run, result hook.Result) {
		got = result
	})

	h.AfterRun(newRun(), hook.Result{Ran: 2})
	if got.Ran != 2 {
		t.Errorf("result.Ran = %d, want 2", got.Ran)
	}
	hook.NewAfterRunFunc("nil", 0, nil).AfterRun(newRun(), hook.Result{})
}

// TestManagerPriorityOrdering verifies hooks run in priority order.
func TestManagerPriorityOrdering(t *testing.T) {
	m := hook.NewManager()
	var order []string

	before := func(name string, priority int) *hook.BeforeRunFunc {
		return hook.NewBeforeRunFunc(name, priority, func(*hook.Run) bool {
			order = append(order, "before-"+name)
			return false
		})
	}
	after := func(name string, priority int) *hook.AfterRunFunc {
		return hook.NewAfterRunFunc(name, priority, func(*hook.Run, hook.Result) {
			order = append(order, "after-"+name)
		})
	}

	m.RegisterBefore(before("low", 10))
	m.RegisterBefore(before("high", 100))
	m.RegisterBefore(before("mid", 50))
	m.RegisterAfter(after("high", 100))
	m.RegisterAfter(after("low", 10))

	if veto, _ := m.RunBefore(newRun()); veto {
		t.Fatal("unexpected veto")
	}
	m.RunAfter(newRun(), hook.Result{})

	want := []string{"before-high", "before-mid", "before-low", "after-low", "after-high"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

// TestManagerVetoStops verifies the first veto stops the chain.
func TestManagerVetoStops(t *testing.T) {
	m := hook.NewManager()
	lowCalled := false

	m.RegisterBefore(hook.NewBeforeRunFunc("blocker", 100, func(*hook.Run) bool { return true }))
	m.RegisterBefore(hook.NewBeforeRunFunc("low", 10, func(*hook.Run) bool {
		lowCalled = true
		return false
	}))

	veto, by := m.RunBefore(newRun())
	if !veto || by != "blocker" {
		t.Errorf("RunBefore() = %v, %q; want true, blocker", veto, by)
	}
	if lowCalled {
		t.Error("hooks after a veto should not run")
	}
}

// TestManagerReplaceAndUnregister verifies name-based replacement and removal.
func TestManagerReplaceAndUnregister(t *testing.T) {
	m := hook.NewManager()
	m.RegisterBefore(hook.NewBeforeRunFunc("x", 1, func(*hook.Run) bool { return true }))
	m.RegisterBefore(hook.NewBeforeRunFunc("x", 1, func(*hook.Run) bool { return false }))

	if names := m.BeforeNames(); len(names) != 1 {
		t.Fatalf("BeforeNames() = %v, want one hook", names)
	}
	if veto, _ := m.RunBefore(newRun()); veto {
		t.Error("replacement hook should be used")
	}

	m.Register(hook.NewAuditHook(zerolog.Nop()))
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (x + audit in both chains)", m.Len())
	}
	if !m.Unregister("audit") {
		t.Error("Unregister(audit) = false")
	}
	if m.Unregister("missing") {
		t.Error("Unregister(missing) = true")
	}
	if len(m.AfterNames()) != 0 {
		t.Errorf("AfterNames() = %v, want empty", m.AfterNames())
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d", m.Len())
	}
}

// TestAuditHookLogs verifies the audit hook writes debug lines.
func TestAuditHookLogs(t *testing.T) {
	var buf bytes.Buffer
	h := hook.NewAuditHook(zerolog.New(&buf).Level(zerolog.DebugLevel))
	run := newRun("node.copy")

	if h.BeforeRun(run) {
		t.Error("audit hook should never veto")
	}
	h.AfterRun(run, hook.Result{Ran: 1})
	h.AfterRun(run, hook.Result{Panicked: true, Recovered: "boom"})

	out := buf.String()
	for _, want := range []string{"shortcut matched", "shortcut complete", "shortcut command panicked", "node.copy", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

// TestReadOnlyHook verifies mutating commands are blocked only when read-only.
func TestReadOnlyHook(t *testing.T) {
	h := hook.NewReadOnlyHook([]string{"node.remove", "node.paste"})

	tests := []struct {
		name     string
		readOnly bool
		commands []string
		wantVeto bool
	}{
		{"writable mutating", false, []string{"node.remove"}, false},
		{"read-only mutating", true, []string{"node.remove"}, true},
		{"read-only safe", true, []string{"node.copy"}, false},
		{"read-only mixed", true, []string{"node.copy", "node.paste"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.SetReadOnly(tt.readOnly)
			if h.ReadOnly() != tt.readOnly {
				t.Fatalf("ReadOnly() = %v", h.ReadOnly())
			}
			if got := h.BeforeRun(newRun(tt.commands...)); got != tt.wantVeto {
				t.Errorf("BeforeRun() = %v, want %v", got, tt.wantVeto)
			}
		})
	}
}

// TestTimingHook verifies durations are reported per chord.
func TestTimingHook(t *testing.T) {
	var gotKeys string
	var gotDur time.Duration
	h := hook.NewTimingHook(func(keys string, d time.Duration) {
		gotKeys = keys
		gotDur = d
	})

	h.AfterRun(newRun(), hook.Result{Duration: 5 * time.Millisecond})
	if gotKeys != "Control+c" || gotDur != 5*time.Millisecond {
		t.Errorf("callback got %q, %v", gotKeys, gotDur)
	}
	hook.NewTimingHook(nil).AfterRun(newRun(), hook.Result{})
}

// TestSelectionGuardHook verifies guarded commands need a selection.
func TestSelectionGuardHook(t *testing.T) {
	h := hook.NewSelectionGuardHook([]string{"node.copy"})

	if !h.BeforeRun(newRun("node.copy")) {
		t.Error("expected veto with empty selection")
	}
	run := newRun("node.copy")
	run.Selection = []string{"n1"}
	if h.BeforeRun(run) {
		t.Error("expected no veto with a selection")
	}
	if h.BeforeRun(newRun("history.undo")) {
		t.Error("unguarded commands should pass")
	}
}
