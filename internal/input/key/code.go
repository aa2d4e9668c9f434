package key

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Code is a canonical key code.
// Values follow the browser keyCode numbering.
type Code int

// String returns the numeric form of the code.
func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// Names of keys the matcher depends on.
const (
	NameControl = "Control"
	NameAlt     = "Alt"
	NameShift   = "Shift"
)

// Table maps symbolic key names to codes.
// Entries may be added and removed at any time. It is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	codes map[string]Code
}

// NewTable creates a table holding the default key names.
func NewTable() *Table {
	t := &Table{codes: make(map[string]Code, len(defaultCodes)+36)}
	for name, code := range defaultCodes {
		t.codes[name] = code
	}
	// Digits
	for i := 0; i <= 9; i++ {
		t.codes[strconv.Itoa(i)] = Code(48 + i)
	}
	// Letters
	for i, r := range "abcdefghijklmnopqrstuvwxyz" {
		t.codes[string(r)] = Code(65 + i)
	}
	return t
}

// Lookup returns the code for name.
func (t *Table) Lookup(name string) (Code, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.codes[name]
	return c, ok
}

// Set adds or replaces the code for name.
func (t *Table) Set(name string, code Code) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.codes[name] = code
}

// Remove deletes name from the table. Missing names are ignored.
func (t *Table) Remove(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.codes, name)
}

// Len returns the number of names in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.codes)
}

// Names returns all key names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.codes))
	for name := range t.codes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NameOf returns the first name (in sorted order) mapped to code.
func (t *Table) NameOf(code Code) (string, bool) {
	for _, name := range t.Names() {
		if c, ok := t.Lookup(name); ok && c == code {
			return name, true
		}
	}
	return "", false
}

// Format spells codes as a descriptor string, "Control+c". Codes without a
// name are written as numbers.
func (t *Table) Format(codes []Code) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		if name, ok := t.NameOf(c); ok {
			parts[i] = name
		} else {
			parts[i] = c.String()
		}
	}
	return strings.Join(parts, "+")
}

// defaultCodes holds the named, non-alphanumeric keys.
var defaultCodes = map[string]Code{
	"Backspace": 8,
	"Tab":       9,
	"Enter":     13,
	"Shift":     16,
	"Control":   17,
	"Alt":       18,
	"CapsLock":  20,
	"Esc":       27,
	"Spacebar":  32,
	"PageUp":    33,
	"PageDown":  34,
	"End":       35,
	"Home":      36,
	"Left":      37,
	"Up":        38,
	"Right":     39,
	"Down":      40,
	"Insert":    45,
	"Del":       46,
	"Cmd":       91,
	"F1":        112,
	"F2":        113,
	"F3":        114,
	"F4":        115,
	"F5":        116,
	"F6":        117,
	"F7":        118,
	"F8":        119,
	"F9":        120,
	"F10":       121,
	"F11":       122,
	"F12":       123,
	"NumLock":   144,
	"=":         187,
	"-":         189,
	".":         190,
	"/":         191,
	"`":         192,
	"CmdFF":     224,
}
