package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/canvaskeys/internal/input/key"
)

// Browser key codes reported for terminal keys.
var namedCodes = map[tcell.Key]key.Code{
	tcell.KeyBackspace:  8,
	tcell.KeyBackspace2: 8,
	tcell.KeyTab:        9,
	tcell.KeyEnter:      13,
	tcell.KeyEscape:     27,
	tcell.KeyPgUp:       33,
	tcell.KeyPgDn:       34,
	tcell.KeyEnd:        35,
	tcell.KeyHome:       36,
	tcell.KeyLeft:       37,
	tcell.KeyUp:         38,
	tcell.KeyRight:      39,
	tcell.KeyDown:       40,
	tcell.KeyInsert:     45,
	tcell.KeyDelete:     46,
	tcell.KeyF1:         112,
	tcell.KeyF2:         113,
	tcell.KeyF3:         114,
	tcell.KeyF4:         115,
	tcell.KeyF5:         116,
	tcell.KeyF6:         117,
	tcell.KeyF7:         118,
	tcell.KeyF8:         119,
	tcell.KeyF9:         120,
	tcell.KeyF10:        121,
	tcell.KeyF11:        122,
	tcell.KeyF12:        123,
}

var punctuationCodes = map[rune]key.Code{
	' ': 32,
	'=': 187,
	'-': 189,
	'.': 190,
	'/': 191,
	'`': 192,
}

// ConvertKey converts a tcell key event into a key-down event for target.
// It returns false for keys that have no browser key code.
func ConvertKey(ev *tcell.EventKey, target key.Target) (*key.Event, bool) {
	code, mods, ok := keyCode(ev.Key(), ev.Rune())
	if !ok {
		return nil, false
	}
	mods |= convertMod(ev.Modifiers())
	kev := key.NewEvent(code, mods, target)
	kev.Timestamp = ev.When()
	return kev, true
}

// keyCode resolves the code and any modifiers implied by the key itself.
func keyCode(k tcell.Key, r rune) (key.Code, key.Modifier, bool) {
	if k == tcell.KeyRune {
		return runeCode(r)
	}
	if k == tcell.KeyBacktab {
		return 9, key.ModShift, true
	}
	if code, ok := namedCodes[k]; ok {
		return code, key.ModNone, true
	}
	// Ctrl-letter keys arrive as control characters.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.Code(65 + int(k-tcell.KeyCtrlA)), key.ModCtrl, true
	}
	return 0, key.ModNone, false
}

func runeCode(r rune) (key.Code, key.Modifier, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return key.Code(65 + int(r-'a')), key.ModNone, true
	case r >= 'A' && r <= 'Z':
		return key.Code(65 + int(r-'A')), key.ModShift, true
	case r >= '0' && r <= '9':
		return key.Code(48 + int(r-'0')), key.ModNone, true
	}
	if code, ok := punctuationCodes[r]; ok {
		return code, key.ModNone, true
	}
	return 0, key.ModNone, false
}

// convertMod converts a tcell modifier mask.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}
