// Package logging builds the zerolog loggers shared by canvaskeys components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout used by the console writer.
const TimeFormat = "2006-01-02 15:04:05"

// Config configures a logger.
type Config struct {
	// Level is the minimum level: debug, info, warn, error or disabled.
	Level string

	// File, when set, is opened in append mode and receives the output.
	// Otherwise output goes to Output.
	File string

	// Output is used when File is empty. Defaults to os.Stderr.
	Output io.Writer

	// NoColor disables ANSI colors in the console writer.
	NoColor bool
}

// DefaultConfig returns a configuration logging info and above to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Output: os.Stderr,
	}
}

// ParseLevel converts a level name to a zerolog level.
// An empty name means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	case "off", "none":
		return zerolog.Disabled, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: invalid level %q: %w", s, err)
	}
	return level, nil
}

// New creates a logger for cfg. The returned closer releases the log file,
// if one was opened, and is never nil.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	var closer io.Closer = nopCloser{}
	noColor := cfg.NoColor

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("logging: creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("logging: opening log file: %w", err)
		}
		out = f
		closer = f
		noColor = true
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: TimeFormat,
		NoColor:    noColor,
	}
	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	return logger, closer, nil
}

// Component returns a child logger tagged with a component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
