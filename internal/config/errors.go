package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates a config file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed indicates a decoded value is out of range.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// yaml.v3 reports positions only in the message text.
var yamlLine = regexp.MustCompile(`line (\d+)`)

func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}

	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
		return pe
	}
	if m := yamlLine.FindStringSubmatch(pe.Message); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}

// Unwrap makes ValidationError match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
