// Package keys maps raw platform key codes to one canonical vocabulary
// shared across macOS, Windows and Linux, and renders key combinations
// for storage and display.
//
// Canonical names: ctrl, alt, shift, super (the Command/Win key), letters
// a-z, digits 0-9, function keys f1-f24, and named keys (space, esc,
// enter, up, ...). Storage never depends on the platform; only Format does.
package keys

import "strings"

// Modifier canonical names. Command, Win and Super all normalize to
// "super"; the platform label is applied at display time.
const (
	Ctrl  = "ctrl"
	Alt   = "alt"
	Shift = "shift"
	Super = "super"
)

// commonCodes maps raw key codes shared by all platforms to canonical
// names. Raw codes follow the physical-key naming used by the capture
// layer (ControlLeft, KeyA, Digit1, F1, ...).
var commonCodes = map[string]string{
	"ControlLeft":  Ctrl,
	"ControlRight": Ctrl,
	"Control":      Ctrl,
	"ShiftLeft":    Shift,
	"ShiftRight":   Shift,
	"Shift":        Shift,
	"AltLeft":      Alt,
	"AltRight":     Alt,
	"Alt":          Alt,
	"MetaLeft":     Super,
	"MetaRight":    Super,
	"Meta":         Super,
	"OSLeft":       Super,
	"OSRight":      Super,
	"Super":        Super,

	"Space":       "space",
	"Escape":      "esc",
	"Enter":       "enter",
	"Return":      "enter",
	"Tab":         "tab",
	"Backspace":   "backspace",
	"Delete":      "delete",
	"Insert":      "insert",
	"Home":        "home",
	"End":         "end",
	"PageUp":      "pageup",
	"PageDown":    "pagedown",
	"ArrowUp":     "up",
	"ArrowDown":   "down",
	"ArrowLeft":   "left",
	"ArrowRight":  "right",
	"CapsLock":    "capslock",
	"NumLock":     "numlock",
	"ScrollLock":  "scrolllock",
	"PrintScreen": "printscreen",
	"Pause":       "pause",
	"ContextMenu": "menu",

	"Minus":        "-",
	"Equal":        "=",
	"BracketLeft":  "[",
	"BracketRight": "]",
	"Backslash":    "\\",
	"Semicolon":    ";",
	"Quote":        "'",
	"Backquote":    "`",
	"Comma":        ",",
	"Period":       ".",
	"Slash":        "/",

	"AudioVolumeUp":   "volumeup",
	"AudioVolumeDown": "volumedown",
	"AudioVolumeMute": "volumemute",
	"MediaPlayPause":  "playpause",
}

// Platform-specific raw aliases checked before the common table. The
// physical Command key reports differently per OS, as do a few legacy
// names.
var platformCodes = map[OS]map[string]string{
	OSMac: {
		"Command":      Super,
		"CommandLeft":  Super,
		"CommandRight": Super,
		"Option":       Alt,
		"OptionLeft":   Alt,
		"OptionRight":  Alt,
	},
	OSWindows: {
		"Win":      Super,
		"WinLeft":  Super,
		"WinRight": Super,
		"Windows":  Super,
		"Apps":     "menu",
	},
	OSLinux: {
		"SuperLeft":      Super,
		"SuperRight":     Super,
		"ISOLevel3Shift": Alt,
	},
}

// Normalize maps a raw key code and platform to a canonical key name.
// It is a pure function; an unrecognized code falls back to its
// lowercased literal form so recording never fails on unexpected input.
func Normalize(raw string, os OS) string {
	if m, ok := platformCodes[os]; ok {
		if name, ok := m[raw]; ok {
			return name
		}
	}
	if name, ok := commonCodes[raw]; ok {
		return name
	}
	// KeyA..KeyZ, Digit0..Digit9, Numpad*, F1..F24
	if len(raw) == 4 && strings.HasPrefix(raw, "Key") {
		return strings.ToLower(raw[3:])
	}
	if len(raw) == 6 && strings.HasPrefix(raw, "Digit") {
		return raw[5:]
	}
	if rest, ok := strings.CutPrefix(raw, "Numpad"); ok {
		return "kp" + strings.ToLower(rest)
	}
	if len(raw) >= 2 && len(raw) <= 3 && (raw[0] == 'F' || raw[0] == 'f') && isDigits(raw[1:]) {
		return strings.ToLower(raw)
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsModifier reports whether a canonical name is one of the four
// modifier keys.
func IsModifier(name string) bool {
	switch name {
	case Ctrl, Alt, Shift, Super:
		return true
	}
	return false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
