// Package host models the element tree key events are delivered to.
package host

import (
	"slices"
	"strings"

	"github.com/dshills/canvaskeys/internal/input/key"
)

// Element is a node in the host's element tree.
// The tree is built once at startup and is not safe for concurrent mutation.
type Element struct {
	// ID names the element, for logs and tests.
	ID string

	// Classes holds the element's class names.
	Classes []string

	parent   *Element
	children []*Element
	root     bool
}

// NewDocument creates the document root element.
func NewDocument() *Element {
	return &Element{ID: "body", root: true}
}

// Append creates a child element and returns it.
func (e *Element) Append(id string, classes ...string) *Element {
	child := &Element{ID: id, Classes: classes, parent: e}
	e.children = append(e.children, child)
	return child
}

// Parent returns the parent element, or nil for the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the direct children in insertion order.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// IsDocumentRoot implements key.Target.
func (e *Element) IsDocumentRoot() bool {
	return e != nil && e.root
}

// HasClass implements key.Target.
func (e *Element) HasClass(name string) bool {
	if e == nil {
		return false
	}
	return slices.Contains(e.Classes, name)
}

// AddClass adds a class if not already present.
func (e *Element) AddClass(name string) {
	if !e.HasClass(name) {
		e.Classes = append(e.Classes, name)
	}
}

// RemoveClass removes a class.
func (e *Element) RemoveClass(name string) {
	e.Classes = slices.DeleteFunc(e.Classes, func(c string) bool { return c == name })
}

// Contains reports whether t is e or one of its descendants.
// Targets that are not elements of this tree are never contained.
func (e *Element) Contains(t key.Target) bool {
	other, ok := t.(*Element)
	if !ok || other == nil || e == nil {
		return false
	}
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Find returns the first element in e's subtree with the given ID.
func (e *Element) Find(id string) *Element {
	if e.ID == id {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Path returns the IDs from the root to e joined by " > ".
func (e *Element) Path() string {
	var ids []string
	for n := e; n != nil; n = n.parent {
		ids = append(ids, n.ID)
	}
	slices.Reverse(ids)
	return strings.Join(ids, " > ")
}

// String implements fmt.Stringer.
func (e *Element) String() string {
	if len(e.Classes) == 0 {
		return e.ID
	}
	return e.ID + "." + strings.Join(e.Classes, ".")
}
