package keymap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a keymap file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat indicates a file extension with no decoder.
var ErrUnsupportedFormat = errors.New("keymap: unsupported file format")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Loader loads keymaps from configuration files.
type Loader struct{}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile loads a keymap from a TOML or YAML file.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := l.LoadReader(f, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	km.Source = "file:" + path
	return km, nil
}

// LoadReader loads a keymap encoded in format from a reader.
func (l *Loader) LoadReader(r io.Reader, format Format) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}

	km := NewKeymap("")
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, km)
	case FormatYAML:
		err = yaml.Unmarshal(data, km)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Path: "<reader>", Format: format, Err: err}
	}

	if err := km.Validate(); err != nil {
		return nil, err
	}
	return km, nil
}

// ParseError represents an error while decoding a keymap file.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s (%s): %v", e.Path, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
