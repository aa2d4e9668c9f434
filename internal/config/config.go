package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/canvaskeys/internal/input/gate"
	"github.com/dshills/canvaskeys/internal/logging"
)

// DefaultFileName is the config file looked up when no path is given.
const DefaultFileName = "canvaskeys.toml"

// Config is the application configuration.
type Config struct {
	// Shortcut configures the dispatcher.
	Shortcut ShortcutConfig `toml:"shortcut" yaml:"shortcut"`

	// Log configures logging.
	Log LogConfig `toml:"log" yaml:"log"`

	// ReadOnly vetoes mutating actions.
	ReadOnly bool `toml:"readonly" yaml:"readonly"`

	// Path is the file the config was loaded from. Empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// ShortcutConfig holds dispatcher settings.
type ShortcutConfig struct {
	// EnableShortcutOnlyWhenMouseInSvg drops key events while the pointer
	// is outside the canvas.
	EnableShortcutOnlyWhenMouseInSvg bool `toml:"enableShortcutOnlyWhenMouseInSvg" yaml:"enableShortcutOnlyWhenMouseInSvg"`

	// EditableClasses are the classes whose elements accept shortcuts.
	EditableClasses []string `toml:"editableClasses" yaml:"editableClasses"`

	// PasteShortcut is the chord that keeps the host's default paste.
	PasteShortcut string `toml:"pasteShortcut" yaml:"pasteShortcut"`

	// RecoverFromPanic isolates panicking handlers.
	RecoverFromPanic bool `toml:"recoverFromPanic" yaml:"recoverFromPanic"`

	// Keymap is a keymap file applied on startup and reloaded on change.
	Keymap string `toml:"keymap" yaml:"keymap"`

	// Scripts are Lua files run on startup.
	Scripts []string `toml:"scripts" yaml:"scripts"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Shortcut: ShortcutConfig{
			EditableClasses:  slices.Clone(gate.DefaultEditableClasses),
			PasteShortcut:    "Control+v",
			RecoverFromPanic: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path over the defaults and applies
// environment overrides. A missing file yields the defaults.
// Relative keymap, script and log paths are resolved against the file's
// directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := Decode(cfg, path, data); err != nil {
			return nil, err
		}
		cfg.Path = path
		cfg.resolvePaths(filepath.Dir(path))
	}

	if err := NewEnvLoader(EnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode decodes data over cfg. The format is picked from the extension of
// path. Unknown keys are rejected.
func Decode(cfg *Config, path string, data []byte) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return newParseError(path, err)
	}
	return nil
}

func (c *Config) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Shortcut.Keymap = resolve(c.Shortcut.Keymap)
	c.Log.File = resolve(c.Log.File)
	for i, s := range c.Shortcut.Scripts {
		c.Shortcut.Scripts[i] = resolve(s)
	}
}

// Validate checks settings that decode cleanly but cannot be used.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Path: "log.level", Message: "unknown level", Value: c.Log.Level}
	}
	for _, class := range c.Shortcut.EditableClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "shortcut.editableClasses", Message: "empty class name", Value: c.Shortcut.EditableClasses}
		}
	}
	for _, s := range c.Shortcut.Scripts {
		if filepath.Ext(s) != ".lua" {
			return &ValidationError{Path: "shortcut.scripts", Message: "scripts must be .lua files", Value: s}
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Shortcut.EditableClasses = slices.Clone(c.Shortcut.EditableClasses)
	cp.Shortcut.Scripts = slices.Clone(c.Shortcut.Scripts)
	return &cp
}
