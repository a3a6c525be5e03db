package keys

import (
	"fmt"
	"strings"
)

// Serialize renders an ordered canonical key sequence as the stable
// storage form: "+"-joined canonical names, e.g. "ctrl+shift+f1".
// The result is OS-agnostic so a binding persists identically across
// platforms.
func Serialize(combo []string) string {
	return strings.Join(combo, "+")
}

// Split is the inverse of Serialize. Empty parts are dropped so a
// trailing "+" in hand-edited settings does not produce a ghost key.
func Split(s string) []string {
	var combo []string
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if part != "" {
			combo = append(combo, part)
		}
	}
	return combo
}

var displayLabels = map[OS]map[string]string{
	OSMac: {
		Ctrl:  "⌃",
		Alt:   "⌥",
		Shift: "⇧",
		Super: "⌘",
	},
	OSWindows: {
		Ctrl:  "Ctrl",
		Alt:   "Alt",
		Shift: "Shift",
		Super: "Win",
	},
	OSLinux: {
		Ctrl:  "Ctrl",
		Alt:   "Alt",
		Shift: "Shift",
		Super: "Super",
	},
}

// Format renders a combination for display. Storage stays canonical;
// only the label set here varies by platform (e.g. the super key shows
// as ⌘ on macOS and Win on Windows). macOS uses glyph concatenation,
// everything else joins with "+".
func Format(combo []string, os OS) string {
	labels, ok := displayLabels[os]
	if !ok {
		labels = displayLabels[OSLinux]
	}
	parts := make([]string, 0, len(combo))
	for _, name := range combo {
		if label, ok := labels[name]; ok {
			parts = append(parts, label)
		} else {
			parts = append(parts, displayKey(name))
		}
	}
	if os == OSMac {
		return strings.Join(parts, "")
	}
	return strings.Join(parts, "+")
}

func displayKey(name string) string {
	if len(name) == 1 {
		return strings.ToUpper(name)
	}
	switch name {
	case "esc":
		return "Esc"
	case "space":
		return "Space"
	}
	if name[0] == 'f' && isDigits(name[1:]) {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Validate rejects combinations without at least one non-modifier key.
// Single non-modifier keys ("f5", "space") are allowed; modifier-only
// combos ("ctrl+shift") are not.
func Validate(serialized string) error {
	combo := Split(serialized)
	if len(combo) == 0 {
		return fmt.Errorf("empty shortcut")
	}
	for _, name := range combo {
		if !IsModifier(name) {
			return nil
		}
	}
	return fmt.Errorf("shortcut %q must contain at least one non-modifier key", serialized)
}
