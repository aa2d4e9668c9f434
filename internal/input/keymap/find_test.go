package keymap

import "testing"

func TestFind(t *testing.T) {
	km := DefaultKeymap()

	got := km.Find("undo", 1)
	if len(got) != 1 || got[0].Action != ActionUndo {
		t.Errorf("Find(undo) = %v", got)
	}

	got = km.Find("zoom", 0)
	if len(got) < 2 || got[0].Action != ActionZoomIn && got[0].Action != ActionZoomOut {
		t.Errorf("Find(zoom) = %v", got)
	}

	if got := km.Find("", 0); len(got) != len(km.Bindings) {
		t.Errorf("Find(\"\") returned %d bindings, want %d", len(got), len(km.Bindings))
	}
	if got := km.Find("qqqq", 0); len(got) != 0 {
		t.Errorf("Find(qqqq) = %v", got)
	}
}
