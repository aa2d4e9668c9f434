package event

import "strings"

// Topic is a hierarchical event name using dot notation.
type Topic string

// Host topics.
const (
	TopicKeyDown       Topic = "window.keydown"
	TopicPointerEnter  Topic = "canvas.pointer.enter"
	TopicPointerLeave  Topic = "canvas.pointer.leave"
	TopicBeforeDestroy Topic = "canvas.destroy.before"

	// TopicShortcutFired is published by the dispatcher after a shortcut's
	// commands ran. Payload is ShortcutFired.
	TopicShortcutFired Topic = "shortcut.fired"
)

// Wildcards and the segment separator.
const (
	WildcardSingle = "*"
	WildcardMulti  = "**"
	Separator      = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsWildcard returns true if the topic contains a wildcard segment.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), WildcardSingle)
}

// IsValid reports whether the topic is non-empty with no empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches reports whether t matches pattern.
// "*" matches exactly one segment and "**" matches zero or more.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(topic, pattern []string) bool {
	ti, pi := 0, 0
	for pi < len(pattern) {
		if pattern[pi] == WildcardMulti {
			for ; ti <= len(topic); ti++ {
				if matchSegments(topic[ti:], pattern[pi+1:]) {
					return true
				}
			}
			return false
		}
		if ti >= len(topic) {
			return false
		}
		if pattern[pi] != WildcardSingle && pattern[pi] != topic[ti] {
			return false
		}
		ti++
		pi++
	}
	return ti == len(topic)
}
