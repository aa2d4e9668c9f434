// Package config loads the canvaskeys application configuration.
//
// Configuration comes from three sources, highest priority first:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← CANVASKEYS_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← canvaskeys.toml / canvaskeys.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A missing config file is not an error; the defaults are used.
//
// # Basic Usage
//
//	cfg, err := config.Load("canvaskeys.toml")
//	if err != nil {
//	    return err
//	}
//	if cfg.Shortcut.Keymap != "" {
//	    // load the keymap file
//	}
//
// The watcher sub-package reloads keymap files when they change on disk.
package config
