package key

// EventCodes reduces an event to the code set compared against descriptors.
//
// Control is added when Ctrl or Meta is held, then Alt and Shift for their
// flags. The raw code is appended last unless it is already present, which
// happens when the pressed key is itself a modifier.
func EventCodes(table *Table, e *Event) []Code {
	codes := make([]Code, 0, 4)
	add := func(name string) {
		if c, ok := table.Lookup(name); ok {
			codes = append(codes, c)
		}
	}

	if e.Modifiers.HasPrimary() {
		add(NameControl)
	}
	if e.Modifiers.HasAlt() {
		add(NameAlt)
	}
	if e.Modifiers.HasShift() {
		add(NameShift)
	}

	for _, c := range codes {
		if c == e.Code {
			return codes
		}
	}
	return append(codes, e.Code)
}

// Matches reports whether the event codes and the descriptor form the same
// multiset. Each event code consumes one equal code from a working copy of
// the descriptor.
func Matches(eventCodes []Code, d Descriptor) bool {
	if len(eventCodes) != len(d) {
		return false
	}

	remaining := make([]Code, len(d))
	copy(remaining, d)

	for _, code := range eventCodes {
		index := -1
		for i, c := range remaining {
			if c == code {
				index = i
				break
			}
		}
		if index == -1 {
			return false
		}
		remaining = append(remaining[:index], remaining[index+1:]...)
	}
	return len(remaining) == 0
}

// MatchEvent is a convenience for Matches(EventCodes(table, e), d).
func MatchEvent(table *Table, e *Event, d Descriptor) bool {
	return Matches(EventCodes(table, e), d)
}
