package keymap

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/canvaskeys/internal/input/key"
)

// Registry maps chord descriptors to ordered command lists.
// It is safe for concurrent use; no lock is held while callers run commands.
type Registry struct {
	mu sync.RWMutex

	table  *key.Table
	logger zerolog.Logger

	// order holds descriptor IDs in insertion order.
	order []string

	// entries holds the live entries by descriptor ID.
	entries map[string]*entry

	// cache is the single saved snapshot, nil when empty.
	cache *snapshot
}

type entry struct {
	keys     string
	desc     key.Descriptor
	commands []*Command
}

type snapshot struct {
	order   []string
	entries map[string]*entry
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for parse warnings.
func WithLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger.With().Str("component", "keymap").Logger()
	}
}

// NewRegistry creates an empty registry resolving names through table.
func NewRegistry(table *key.Table, opts ...RegistryOption) *Registry {
	if table == nil {
		table = key.NewTable()
	}
	r := &Registry{
		table:   table,
		logger:  zerolog.Nop(),
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the key table used for parsing.
func (r *Registry) Table() *key.Table {
	return r.table
}

// parse resolves every descriptor of a shortcut string, logging unknown names.
func (r *Registry) parse(shortcut string) []key.Parsed {
	parsed := key.ParseShortcut(r.table, shortcut)
	for _, p := range parsed {
		for _, token := range p.Unresolved {
			r.logger.Warn().
				Str("token", token).
				Str("shortcut", shortcut).
				Msg("unknown key name in shortcut")
		}
	}
	return parsed
}

// Add appends cmd to the command list of every descriptor in shortcut,
// creating entries as needed. Descriptors that resolve to no codes are skipped.
func (r *Registry) Add(shortcut string, cmd *Command) {
	if cmd == nil {
		return
	}
	parsed := r.parse(shortcut)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range parsed {
		if len(p.Descriptor) == 0 {
			r.logger.Warn().Str("shortcut", shortcut).Str("descriptor", p.Spec).Msg("descriptor resolved to no keys, skipping")
			continue
		}
		id := p.Descriptor.Key()
		e, ok := r.entries[id]
		if !ok {
			e = &entry{keys: p.Spec, desc: p.Descriptor}
			r.entries[id] = e
			r.order = append(r.order, id)
		}
		e.commands = append(e.commands, cmd)
	}
}

// AddFunc wraps fn in a new command, registers it and returns it.
func (r *Registry) AddFunc(shortcut, name string, fn func()) *Command {
	cmd := NewCommand(name, fn)
	r.Add(shortcut, cmd)
	return cmd
}

// Remove unbinds shortcut. With a nil cmd every descriptor entry is deleted;
// otherwise only the first occurrence of cmd is removed from each list.
// Missing descriptors and commands are ignored.
func (r *Registry) Remove(shortcut string, cmd *Command) {
	parsed := r.parse(shortcut)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range parsed {
		id := p.Descriptor.Key()
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		if cmd == nil {
			r.deleteLocked(id)
			continue
		}
		for i, c := range e.commands {
			if c == cmd {
				e.commands = append(e.commands[:i:i], e.commands[i+1:]...)
				break
			}
		}
		if len(e.commands) == 0 {
			r.deleteLocked(id)
		}
	}
}

// deleteLocked removes an entry. Caller must hold the write lock.
func (r *Registry) deleteLocked(id string) {
	delete(r.entries, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			return
		}
	}
}

// Handlers returns the commands bound to shortcut.
//
// When shortcut holds several OR-separated descriptors, the list of the last
// descriptor is returned, not a union. An absent last descriptor yields an
// empty list even if earlier ones are bound.
func (r *Registry) Handlers(shortcut string) []*Command {
	parsed := r.parse(shortcut)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Command
	for _, p := range parsed {
		result = nil
		if e, ok := r.entries[p.Descriptor.Key()]; ok {
			result = cloneCommands(e.commands)
		}
	}
	if result == nil {
		result = []*Command{}
	}
	return result
}

// Has reports whether any descriptor of shortcut is bound.
func (r *Registry) Has(shortcut string) bool {
	parsed := r.parse(shortcut)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range parsed {
		if _, ok := r.entries[p.Descriptor.Key()]; ok {
			return true
		}
	}
	return false
}

// Entries returns a snapshot of all entries in insertion order.
// Later changes to the registry do not affect the snapshot.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		result = append(result, Entry{
			Keys:       e.keys,
			Descriptor: e.desc,
			Commands:   cloneCommands(e.commands),
		})
	}
	return result
}

// Commands returns the live command list for a descriptor ID.
// The second result is false if the entry no longer exists.
func (r *Registry) Commands(id string) ([]*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return cloneCommands(e.commands), true
}

// Len returns the number of descriptor entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clear removes all entries. The saved snapshot is kept.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.entries = make(map[string]*entry)
}

// Save moves all entries into the cache slot and empties the registry.
// It does nothing if the slot is already taken or the registry is empty.
func (r *Registry) Save() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil || len(r.order) == 0 {
		return
	}
	r.cache = &snapshot{order: r.order, entries: r.entries}
	r.order = nil
	r.entries = make(map[string]*entry)
}

// Restore moves the cached entries back, replacing the current ones, and
// clears the slot. It does nothing if nothing is saved.
func (r *Registry) Restore() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache == nil {
		return
	}
	r.order = r.cache.order
	r.entries = r.cache.entries
	r.cache = nil
}

// Saved reports whether the cache slot holds a snapshot.
func (r *Registry) Saved() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache != nil
}

func cloneCommands(src []*Command) []*Command {
	dst := make([]*Command, len(src))
	copy(dst, src)
	return dst
}
