// Package portal mirrors the desktop portal's view of our global
// shortcuts. On Wayland the XDG Desktop Portal GlobalShortcuts service
// owns the actual registrations; the triggers it reports may differ
// from what we requested. This shadow state exists only for display and
// hazard warnings; it never mutates a stored binding.
package portal

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// ShortcutInfo is one shortcut as reported by the portal registry.
// Trigger is the portal's human-readable description, e.g.
// "Press <Control>space".
type ShortcutInfo struct {
	ID              string
	Trigger         string
	HasPrintableKey bool
}

// State is the shadow copy of the registry's shortcut list. The
// registry is the sole source of truth for this view, so every push
// replaces the whole map.
type State struct {
	mu    sync.Mutex
	infos map[string]ShortcutInfo
	ready bool
}

func NewState() *State {
	return &State{infos: make(map[string]ShortcutInfo)}
}

// Replace installs a snapshot wholesale, discarding previous entries.
func (s *State) Replace(infos []ShortcutInfo) {
	m := make(map[string]ShortcutInfo, len(infos))
	for _, info := range infos {
		info.HasPrintableKey = TriggerHasPrintableKey(info.Trigger)
		m[info.ID] = info
	}
	s.mu.Lock()
	s.infos = m
	s.ready = true
	s.mu.Unlock()
}

func (s *State) Get(id string) (ShortcutInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.infos[id]
	return info, ok
}

// All returns the snapshot sorted by id. Empty until the first push.
func (s *State) All() []ShortcutInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil
	}
	out := make([]ShortcutInfo, 0, len(s.infos))
	for _, info := range s.infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *State) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// IsWaylandSession reports whether the desktop portal owns global
// shortcuts for this session.
func IsWaylandSession() bool {
	return strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland")
}

// IsPrintableKey reports whether a key produces a visible character when
// pressed. Such keys are hazardous in portal-managed shortcuts: the
// portal does not consume the key event, so the character leaks into
// the focused window.
func IsPrintableKey(key string) bool {
	key = strings.ToLower(key)
	if key == "space" {
		return true
	}
	if len(key) == 1 {
		c := key[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	if strings.HasPrefix(key, "num") || strings.HasPrefix(key, "kp") {
		return true
	}
	return false
}

// TriggerHasPrintableKey checks a portal trigger description, e.g.
// "Press <Control>space" or "Press <Control><Shift>r".
func TriggerHasPrintableKey(trigger string) bool {
	key := trigger
	if _, after, ok := strings.Cut(trigger, ">"); ok {
		for {
			if _, next, ok := strings.Cut(after, ">"); ok {
				after = next
				continue
			}
			break
		}
		key = strings.TrimSpace(after)
	} else {
		fields := strings.Fields(trigger)
		if len(fields) > 0 {
			key = fields[len(fields)-1]
		}
	}
	return IsPrintableKey(key)
}

// PrintableKeyIn returns the first printable non-modifier key in a
// canonical serialized combination, for warning before a commit.
func PrintableKeyIn(serialized string) (string, bool) {
	for _, part := range strings.Split(serialized, "+") {
		part = strings.TrimSpace(strings.ToLower(part))
		switch part {
		case "ctrl", "control", "shift", "alt", "option", "meta", "command", "cmd", "super", "win", "windows":
			continue
		}
		if IsPrintableKey(part) {
			return part, true
		}
	}
	return "", false
}
