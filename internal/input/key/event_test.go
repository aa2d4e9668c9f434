package key

import (
	"testing"
)

type rootTarget struct{}

func (rootTarget) IsDocumentRoot() bool      { return true }
func (rootTarget) HasClass(name string) bool { return false }

func TestNewEvent(t *testing.T) {
	e := NewEvent(13, ModCtrl, rootTarget{})
	if e.Code != 13 {
		t.Errorf("NewEvent code = %v, want 13", e.Code)
	}
	if e.Modifiers != ModCtrl {
		t.Errorf("NewEvent modifiers = %v, want ModCtrl", e.Modifiers)
	}
	if e.Target == nil || !e.Target.IsDocumentRoot() {
		t.Error("NewEvent should keep the target")
	}
	if e.Timestamp.IsZero() {
		t.Error("NewEvent should set a timestamp")
	}
}

func TestEventDefaultHandling(t *testing.T) {
	e := NewEvent(65, ModNone, nil)
	if e.DefaultPrevented() || e.PropagationStopped() {
		t.Fatal("fresh event should not be suppressed")
	}

	e.PreventDefault()
	if !e.DefaultPrevented() {
		t.Error("PreventDefault should mark the event")
	}
	if e.PropagationStopped() {
		t.Error("PreventDefault should not stop propagation")
	}

	e.StopPropagation()
	if !e.PropagationStopped() {
		t.Error("StopPropagation should mark the event")
	}
}
