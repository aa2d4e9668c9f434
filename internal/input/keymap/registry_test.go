package keymap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dshills/canvaskeys/internal/input/key"
)

func newTestRegistry() *Registry {
	return NewRegistry(key.NewTable())
}

func TestRegistryAddAlias(t *testing.T) {
	r := newTestRegistry()
	cmd := r.AddFunc("Tab | Insert", "node.insertChild", func() {})

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	for _, keys := range []string{"Tab", "Insert"} {
		got := r.Handlers(keys)
		if len(got) != 1 || got[0] != cmd {
			t.Errorf("Handlers(%q) = %v, want [%v]", keys, got, cmd)
		}
	}
}

func TestRegistryAddOrderAndDuplicates(t *testing.T) {
	r := newTestRegistry()
	a := NewCommand("a", nil)
	b := NewCommand("b", nil)

	r.Add("Control+c", a)
	r.Add("Control+c", b)
	r.Add("Control+c", a)

	got := r.Handlers("Control+c")
	want := []*Command{a, b, a}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Handlers[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryDescriptorOrderIndependent(t *testing.T) {
	r := newTestRegistry()
	a := r.AddFunc("Control+Shift+z", "a", nil)
	b := r.AddFunc("Shift + Control + z", "b", nil)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 shared entry", r.Len())
	}
	got := r.Handlers("z+Control+Shift")
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Handlers = %v, want [a b]", got)
	}

	entries := r.Entries()
	if entries[0].Keys != "Control+Shift+z" {
		t.Errorf("entry keys = %q, want first spelling", entries[0].Keys)
	}
}

func TestRegistryAddNil(t *testing.T) {
	r := newTestRegistry()
	r.Add("Enter", nil)
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryUnresolvedTokenWarns(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(key.NewTable(), WithLogger(zerolog.New(&buf)))

	r.AddFunc("Control+Hyper+s", "save", nil)

	if !strings.Contains(buf.String(), "Hyper") {
		t.Errorf("expected warning mentioning the token, got %q", buf.String())
	}
	// The unknown token is dropped, leaving Control+s.
	if len(r.Handlers("Control+s")) != 1 {
		t.Error("expected the shorter descriptor to be registered")
	}
}

func TestRegistryEmptyDescriptorSkipped(t *testing.T) {
	r := newTestRegistry()
	r.AddFunc("Nope | Enter", "x", nil)

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if !r.Has("Enter") {
		t.Error("Enter should be registered")
	}
}

func TestRegistryRemoveCommand(t *testing.T) {
	r := newTestRegistry()
	a := NewCommand("a", nil)
	b := NewCommand("b", nil)
	r.Add("Del | Backspace", a)
	r.Add("Del", b)
	r.Add("Del", a)

	r.Remove("Del", a)
	got := r.Handlers("Del")
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Errorf("Handlers(Del) = %v, want [b a]", got)
	}

	r.Remove("Backspace", a)
	if r.Has("Backspace") {
		t.Error("removing the last command should delete the entry")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryRemoveAll(t *testing.T) {
	r := newTestRegistry()
	r.AddFunc("Tab | Insert", "a", nil)
	r.AddFunc("Tab", "b", nil)

	r.Remove("Tab | Insert", nil)
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryRemoveMissing(t *testing.T) {
	r := newTestRegistry()
	a := r.AddFunc("Enter", "a", nil)

	// None of these should panic or change anything.
	r.Remove("Esc", nil)
	r.Remove("Esc", a)
	r.Remove("Enter", NewCommand("other", nil))
	r.Remove("", nil)

	if got := r.Handlers("Enter"); len(got) != 1 || got[0] != a {
		t.Errorf("Handlers(Enter) = %v, want [a]", got)
	}
}

func TestRegistryHandlersLastDescriptor(t *testing.T) {
	r := newTestRegistry()
	tab := r.AddFunc("Tab", "tab", nil)
	r.AddFunc("Enter", "enter", nil)

	got := r.Handlers("Enter | Tab")
	if len(got) != 1 || got[0] != tab {
		t.Errorf("Handlers(Enter | Tab) = %v, want only Tab's list", got)
	}

	got = r.Handlers("Tab | Esc")
	if len(got) != 0 {
		t.Errorf("Handlers(Tab | Esc) = %v, want empty since Esc is unbound", got)
	}
	if got == nil {
		t.Error("Handlers should return an empty, non-nil slice")
	}
}

func TestRegistryEntriesSnapshot(t *testing.T) {
	r := newTestRegistry()
	r.AddFunc("Enter", "a", nil)
	r.AddFunc("Tab", "b", nil)
	r.AddFunc("Esc", "c", nil)

	entries := r.Entries()
	r.Remove("Tab", nil)
	r.AddFunc("Enter", "d", nil)

	if len(entries) != 3 {
		t.Fatalf("snapshot len = %d, want 3", len(entries))
	}
	wantKeys := []string{"Enter", "Tab", "Esc"}
	for i, e := range entries {
		if e.Keys != wantKeys[i] {
			t.Errorf("entries[%d].Keys = %q, want %q", i, e.Keys, wantKeys[i])
		}
	}
	if len(entries[0].Commands) != 1 {
		t.Errorf("snapshot commands changed: %v", entries[0].Names())
	}

	if _, ok := r.Commands(entries[1].ID()); ok {
		t.Error("removed entry should not be found")
	}
	live, ok := r.Commands(entries[0].ID())
	if !ok || len(live) != 2 {
		t.Errorf("live commands = %v, %v; want 2 commands", live, ok)
	}
}

func TestRegistryInsertionOrderAfterDelete(t *testing.T) {
	r := newTestRegistry()
	r.AddFunc("Enter", "a", nil)
	r.AddFunc("Tab", "b", nil)
	r.Remove("Enter", nil)
	r.AddFunc("Enter", "c", nil)

	entries := r.Entries()
	if len(entries) != 2 || entries[0].Keys != "Tab" || entries[1].Keys != "Enter" {
		t.Errorf("order = %+v, want Tab then Enter", entries)
	}
}

func TestRegistrySaveRestore(t *testing.T) {
	r := newTestRegistry()
	a := r.AddFunc("Control+c", "copy", nil)
	b := r.AddFunc("Enter", "enter", nil)
	before := r.Entries()

	r.Save()
	if !r.Saved() {
		t.Fatal("Saved() should be true after Save")
	}
	if r.Len() != 0 {
		t.Errorf("Len() after Save = %d, want 0", r.Len())
	}

	r.Restore()
	if r.Saved() {
		t.Error("Saved() should be false after Restore")
	}

	after := r.Entries()
	if len(after) != len(before) {
		t.Fatalf("restored %d entries, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].Keys != before[i].Keys || after[i].ID() != before[i].ID() {
			t.Errorf("entry %d = %q, want %q", i, after[i].Keys, before[i].Keys)
		}
	}
	if got := r.Handlers("Control+c"); len(got) != 1 || got[0] != a {
		t.Errorf("Control+c handlers = %v", got)
	}
	if got := r.Handlers("Enter"); len(got) != 1 || got[0] != b {
		t.Errorf("Enter handlers = %v", got)
	}
}

func TestRegistrySecondSaveIsNoop(t *testing.T) {
	r := newTestRegistry()
	orig := r.AddFunc("Control+c", "copy", nil)

	r.Save()
	r.AddFunc("Enter", "confirm", nil)
	r.Save() // must not overwrite the cache

	r.Restore()
	if r.Has("Enter") {
		t.Error("shortcuts added after the first Save should be gone")
	}
	if got := r.Handlers("Control+c"); len(got) != 1 || got[0] != orig {
		t.Errorf("original shortcut not restored: %v", got)
	}
}

func TestRegistryRestoreWithoutSave(t *testing.T) {
	r := newTestRegistry()
	r.AddFunc("Enter", "a", nil)

	r.Restore()
	if r.Len() != 1 {
		t.Errorf("Restore without Save changed the registry: Len() = %d", r.Len())
	}
}

func TestRegistrySaveEmptyIsNoop(t *testing.T) {
	r := newTestRegistry()
	r.Save()
	if r.Saved() {
		t.Fatal("Saved() should be false after saving an empty registry")
	}

	r.AddFunc("Enter", "a", nil)
	r.Restore()
	if !r.Has("Enter") {
		t.Error("Restore after an empty Save should keep new shortcuts")
	}

	r.Save()
	if !r.Saved() || r.Has("Enter") {
		t.Error("a later Save should stash the registry")
	}
}

func TestRegistryClearKeepsCache(t *testing.T) {
	r := newTestRegistry()
	r.AddFunc("Enter", "a", nil)
	r.Save()
	r.AddFunc("Tab", "b", nil)
	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	r.Restore()
	if !r.Has("Enter") {
		t.Error("Clear should not drop the saved snapshot")
	}
}

func TestRegistryTableExtension(t *testing.T) {
	table := key.NewTable()
	r := NewRegistry(table)

	r.AddFunc("Meta+k", "k", nil)
	if r.Has("Control+Meta+k") {
		t.Fatal("unexpected entry")
	}

	r.ExtendKeyMap("Meta", 91)
	r.AddFunc("Meta+k", "k2", nil)
	if got := r.Handlers("Meta+k"); len(got) != 1 {
		t.Errorf("Handlers(Meta+k) = %v, want one command", got)
	}
}
