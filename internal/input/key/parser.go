package key

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Separators used in shortcut strings.
const (
	OrSeparator  = "|"
	AndSeparator = "+"
)

var (
	orSplitter  = regexp.MustCompile(`\s*\|\s*`)
	andSplitter = regexp.MustCompile(`\s*\+\s*`)
)

// Descriptor is the canonical form of one chord: a deduplicated set of
// codes. Order is kept as written but does not affect equality.
type Descriptor []Code

// Key returns an order-independent identity for the descriptor.
// Equal descriptors always produce the same key.
func (d Descriptor) Key() string {
	sorted := make([]int, len(d))
	for i, c := range d {
		sorted[i] = int(c)
	}
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, AndSeparator)
}

// Contains reports whether code is part of the descriptor.
func (d Descriptor) Contains(code Code) bool {
	for _, c := range d {
		if c == code {
			return true
		}
	}
	return false
}

// Parsed is the result of parsing one descriptor string.
type Parsed struct {
	// Spec is the descriptor string as written, trimmed.
	Spec string

	// Descriptor holds the resolved codes.
	Descriptor Descriptor

	// Unresolved lists tokens the table did not know.
	Unresolved []string
}

// SplitShortcut splits a shortcut string on the OR separator.
// Whitespace around each part is removed.
func SplitShortcut(shortcut string) []string {
	s := strings.TrimSpace(shortcut)
	if s == "" {
		return nil
	}
	return orSplitter.Split(s, -1)
}

// ParseDescriptor resolves a single "A+B+C" descriptor string through the
// table. Unknown tokens are skipped and reported in Parsed.Unresolved.
func ParseDescriptor(table *Table, spec string) Parsed {
	spec = strings.TrimSpace(spec)
	parsed := Parsed{Spec: spec}
	if spec == "" {
		return parsed
	}

	for _, token := range andSplitter.Split(spec, -1) {
		code, ok := table.Lookup(token)
		if !ok {
			parsed.Unresolved = append(parsed.Unresolved, token)
			continue
		}
		if !parsed.Descriptor.Contains(code) {
			parsed.Descriptor = append(parsed.Descriptor, code)
		}
	}
	return parsed
}

// ParseShortcut parses every OR-separated descriptor of a shortcut string.
func ParseShortcut(table *Table, shortcut string) []Parsed {
	parts := SplitShortcut(shortcut)
	result := make([]Parsed, 0, len(parts))
	for _, part := range parts {
		result = append(result, ParseDescriptor(table, part))
	}
	return result
}
