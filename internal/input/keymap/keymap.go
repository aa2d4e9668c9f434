package keymap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/canvaskeys/internal/input/key"
)

// Keymap errors.
var (
	// ErrUnknownAction indicates a binding names an action nobody provides.
	ErrUnknownAction = errors.New("keymap: unknown action")

	// ErrInvalidBinding indicates a binding with missing fields.
	ErrInvalidBinding = errors.New("keymap: invalid binding")
)

// Keymap is a named set of bindings, usually loaded from a file.
type Keymap struct {
	// Name is the keymap identifier.
	Name string `toml:"name" yaml:"name"`

	// KeyCodes extends the key table before bindings are registered.
	// Example: {"Meta": 91}
	KeyCodes map[string]int `toml:"keycodes,omitempty" yaml:"keycodes,omitempty"`

	// Bindings are the shortcut-to-action mappings.
	Bindings []Binding `toml:"bindings" yaml:"bindings"`

	// Source indicates where this keymap was defined.
	// Examples: "default", "file:/home/me/keymap.toml"
	Source string `toml:"-" yaml:"-"`
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// WithKeyCode adds a key table extension.
func (k *Keymap) WithKeyCode(name string, code int) *Keymap {
	if k.KeyCodes == nil {
		k.KeyCodes = make(map[string]int)
	}
	k.KeyCodes[name] = code
	return k
}

// Add adds a binding to this keymap.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, NewBinding(keys, action))
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	k.Bindings = append(k.Bindings, binding)
	return k
}

// Validate checks that all bindings have keys and an action.
// Key names are not checked here; unknown names only produce warnings when
// the keymap is applied.
func (k *Keymap) Validate() error {
	for i, b := range k.Bindings {
		if len(key.SplitShortcut(b.Keys)) == 0 {
			return fmt.Errorf("%w: binding %d: empty keys", ErrInvalidBinding, i)
		}
		if b.Action == "" {
			return fmt.Errorf("%w: binding %d (%s): empty action", ErrInvalidBinding, i, b.Keys)
		}
	}
	return nil
}

// Actions resolves action names to callbacks.
type Actions map[string]func()

// Names returns the action names in sorted order.
func (a Actions) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registrar is the registration surface a keymap is applied to.
// Both Registry and the dispatcher satisfy it.
type Registrar interface {
	AddShortcut(shortcut string, cmd *Command)
	RemoveShortcut(shortcut string, cmd *Command)
	ExtendKeyMap(name string, code key.Code)
}

// AddShortcut implements Registrar.
func (r *Registry) AddShortcut(shortcut string, cmd *Command) { r.Add(shortcut, cmd) }

// RemoveShortcut implements Registrar.
func (r *Registry) RemoveShortcut(shortcut string, cmd *Command) { r.Remove(shortcut, cmd) }

// ExtendKeyMap implements Registrar.
func (r *Registry) ExtendKeyMap(name string, code key.Code) { r.table.Set(name, code) }

// Applied records what a keymap registered so it can be unbound.
type Applied struct {
	Keymap   *Keymap
	bindings []appliedBinding
}

type appliedBinding struct {
	keys string
	cmd  *Command
}

// Len returns the number of registered bindings.
func (a *Applied) Len() int {
	if a == nil {
		return 0
	}
	return len(a.bindings)
}

// Unbind removes every command the keymap registered.
// Key table extensions are left in place.
func (a *Applied) Unbind(r Registrar) {
	if a == nil {
		return
	}
	for _, b := range a.bindings {
		r.RemoveShortcut(b.keys, b.cmd)
	}
	a.bindings = nil
}

// Apply extends the key table and registers every binding whose action is in
// actions. Bindings with unknown actions are skipped and reported in the
// returned error; the others are still registered.
func (k *Keymap) Apply(r Registrar, actions Actions) (*Applied, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	// Extend the table first so bindings may use the new names.
	names := make([]string, 0, len(k.KeyCodes))
	for name := range k.KeyCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.ExtendKeyMap(name, key.Code(k.KeyCodes[name]))
	}

	applied := &Applied{Keymap: k}
	var errs []error
	for _, b := range k.Bindings {
		fn, ok := actions[b.Action]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q bound to %q", ErrUnknownAction, b.Action, b.Keys))
			continue
		}
		cmd := NewCommand(b.Action, fn)
		r.AddShortcut(b.Keys, cmd)
		applied.bindings = append(applied.bindings, appliedBinding{keys: b.Keys, cmd: cmd})
	}

	return applied, errors.Join(errs...)
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := &Keymap{
		Name:     k.Name,
		Source:   k.Source,
		Bindings: make([]Binding, len(k.Bindings)),
	}
	copy(clone.Bindings, k.Bindings)
	if k.KeyCodes != nil {
		clone.KeyCodes = make(map[string]int, len(k.KeyCodes))
		for name, code := range k.KeyCodes {
			clone.KeyCodes[name] = code
		}
	}
	return clone
}
