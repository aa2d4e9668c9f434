package keymap

import (
	"github.com/dshills/canvaskeys/internal/input/key"
)

// Command is a named shortcut handler.
// Commands are compared by pointer.
type Command struct {
	// Name identifies the command in logs and hooks.
	// Examples: "node.copy", "history.undo"
	Name string

	// Run is invoked synchronously when a bound chord fires.
	Run func()
}

// NewCommand creates a command with the given name and callback.
func NewCommand(name string, fn func()) *Command {
	return &Command{
		Name: name,
		Run:  fn,
	}
}

// Execute runs the command. Nil commands and nil callbacks do nothing.
func (c *Command) Execute() {
	if c == nil || c.Run == nil {
		return
	}
	c.Run()
}

// String returns the command name.
func (c *Command) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}

// Entry is a registered descriptor and its commands.
type Entry struct {
	// Keys is the descriptor string used when the entry was created.
	Keys string

	// Descriptor is the resolved chord.
	Descriptor key.Descriptor

	// Commands are invoked in this order.
	Commands []*Command
}

// ID returns the order-independent identity of the entry's descriptor.
func (e Entry) ID() string {
	return e.Descriptor.Key()
}

// Names returns the command names of the entry.
func (e Entry) Names() []string {
	names := make([]string, len(e.Commands))
	for i, c := range e.Commands {
		names[i] = c.String()
	}
	return names
}

// Binding maps a shortcut string to a named action in a keymap file.
type Binding struct {
	// Keys is the shortcut string.
	// Formats: "Enter", "Control+c", "Tab | Insert"
	Keys string `toml:"keys" yaml:"keys"`

	// Action names the command to bind.
	Action string `toml:"action" yaml:"action"`

	// Description provides documentation for the binding.
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`

	// Category groups bindings for display purposes.
	Category string `toml:"category,omitempty" yaml:"category,omitempty"`
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{
		Keys:   keys,
		Action: action,
	}
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// WithCategory sets the category for this binding.
func (b Binding) WithCategory(category string) Binding {
	b.Category = category
	return b
}

// BindingCategory represents a category of bindings for display.
type BindingCategory struct {
	Name     string
	Bindings []Binding
}

// GroupByCategory groups bindings by their category.
func GroupByCategory(bindings []Binding) []BindingCategory {
	categoryMap := make(map[string][]Binding)
	order := make([]string, 0)

	for _, b := range bindings {
		cat := b.Category
		if cat == "" {
			cat = "Other"
		}
		if _, exists := categoryMap[cat]; !exists {
			order = append(order, cat)
		}
		categoryMap[cat] = append(categoryMap[cat], b)
	}

	result := make([]BindingCategory, 0, len(order))
	for _, name := range order {
		result = append(result, BindingCategory{
			Name:     name,
			Bindings: categoryMap[name],
		})
	}
	return result
}
