package config

import (
	"fmt"
	"os"
	"strings"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "CANVASKEYS_"

// EnvLoader applies environment variables over a Config.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "CANVASKEYS_")
	mapping map[string]string // Env var suffix -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates an environment loader reading the process
// environment. The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lookup:  os.LookupEnv,
	}
}

// WithLookup replaces the environment source, for tests.
func (l *EnvLoader) WithLookup(lookup func(string) (string, bool)) *EnvLoader {
	l.lookup = lookup
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"LOG_LEVEL":      "log.level",
		"LOG_FILE":       "log.file",
		"READONLY":       "readonly",
		"KEYMAP":         "shortcut.keymap",
		"PASTE_SHORTCUT": "shortcut.pasteShortcut",
		"POINTER_GATING": "shortcut.enableShortcutOnlyWhenMouseInSvg",
	}
}

// Apply sets every mapped variable that is present. Empty values are
// treated as set.
func (l *EnvLoader) Apply(cfg *Config) error {
	for suffix, path := range l.mapping {
		name := l.prefix + suffix
		val, ok := l.lookup(name)
		if !ok {
			continue
		}
		if err := setByPath(cfg, path, val); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func setByPath(cfg *Config, path, val string) error {
	switch path {
	case "log.level":
		cfg.Log.Level = val
	case "log.file":
		cfg.Log.File = val
	case "shortcut.keymap":
		cfg.Shortcut.Keymap = val
	case "shortcut.pasteShortcut":
		cfg.Shortcut.PasteShortcut = val
	case "readonly", "shortcut.enableShortcutOnlyWhenMouseInSvg":
		b, ok := parseBool(val)
		if !ok {
			return &ValidationError{Path: path, Message: "not a boolean", Value: val}
		}
		if path == "readonly" {
			cfg.ReadOnly = b
		} else {
			cfg.Shortcut.EnableShortcutOnlyWhenMouseInSvg = b
		}
	default:
		return &ValidationError{Path: path, Message: "not settable from the environment", Value: val}
	}
	return nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0", "":
		return false, true
	}
	return false, false
}
