//go:build !linux

package hotkey

import (
	"fmt"

	xhk "golang.design/x/hotkey"

	"murmur/keys"
)

// keyMap translates canonical non-modifier names to x/hotkey keys.
var keyMap = map[string]xhk.Key{
	"a": xhk.KeyA, "b": xhk.KeyB, "c": xhk.KeyC, "d": xhk.KeyD,
	"e": xhk.KeyE, "f": xhk.KeyF, "g": xhk.KeyG, "h": xhk.KeyH,
	"i": xhk.KeyI, "j": xhk.KeyJ, "k": xhk.KeyK, "l": xhk.KeyL,
	"m": xhk.KeyM, "n": xhk.KeyN, "o": xhk.KeyO, "p": xhk.KeyP,
	"q": xhk.KeyQ, "r": xhk.KeyR, "s": xhk.KeyS, "t": xhk.KeyT,
	"u": xhk.KeyU, "v": xhk.KeyV, "w": xhk.KeyW, "x": xhk.KeyX,
	"y": xhk.KeyY, "z": xhk.KeyZ,

	"0": xhk.Key0, "1": xhk.Key1, "2": xhk.Key2, "3": xhk.Key3,
	"4": xhk.Key4, "5": xhk.Key5, "6": xhk.Key6, "7": xhk.Key7,
	"8": xhk.Key8, "9": xhk.Key9,

	"space":  xhk.KeySpace,
	"enter":  xhk.KeyReturn,
	"esc":    xhk.KeyEscape,
	"tab":    xhk.KeyTab,
	"delete": xhk.KeyDelete,
	"up":     xhk.KeyUp,
	"down":   xhk.KeyDown,
	"left":   xhk.KeyLeft,
	"right":  xhk.KeyRight,

	"f1": xhk.KeyF1, "f2": xhk.KeyF2, "f3": xhk.KeyF3, "f4": xhk.KeyF4,
	"f5": xhk.KeyF5, "f6": xhk.KeyF6, "f7": xhk.KeyF7, "f8": xhk.KeyF8,
	"f9": xhk.KeyF9, "f10": xhk.KeyF10, "f11": xhk.KeyF11, "f12": xhk.KeyF12,
	"f13": xhk.KeyF13, "f14": xhk.KeyF14, "f15": xhk.KeyF15, "f16": xhk.KeyF16,
	"f17": xhk.KeyF17, "f18": xhk.KeyF18, "f19": xhk.KeyF19, "f20": xhk.KeyF20,
}

type xHotkey struct {
	hk      *xhk.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
	stop    chan struct{}
}

// newComboHotkey parses a serialized combination into a
// golang.design/x/hotkey registration (Cocoa/Win32).
func newComboHotkey(combo string, _ keys.OS) (Hotkey, error) {
	mods, key, err := parseCombo(combo)
	if err != nil {
		return nil, err
	}
	return &xHotkey{
		hk:      xhk.New(mods, key),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}, nil
}

func parseCombo(combo string) ([]xhk.Modifier, xhk.Key, error) {
	var (
		mods   []xhk.Modifier
		key    xhk.Key
		hasKey bool
	)
	for _, name := range keys.Split(combo) {
		if m, ok := modifierMap[name]; ok {
			mods = append(mods, m)
			continue
		}
		k, ok := keyMap[name]
		if !ok {
			return nil, 0, fmt.Errorf("no key mapping for %q", name)
		}
		if hasKey {
			return nil, 0, fmt.Errorf("combination %q has more than one non-modifier key", combo)
		}
		key = k
		hasKey = true
	}
	if !hasKey {
		return nil, 0, fmt.Errorf("combination %q has no non-modifier key", combo)
	}
	return mods, key, nil
}

func (h *xHotkey) Register() error {
	if err := h.hk.Register(); err != nil {
		return err
	}
	h.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-h.hk.Keydown():
				select {
				case h.keydown <- struct{}{}:
				case <-h.stop:
					return
				}
			case <-h.hk.Keyup():
				select {
				case h.keyup <- struct{}{}:
				case <-h.stop:
					return
				}
			case <-h.stop:
				return
			}
		}
	}()
	return nil
}

func (h *xHotkey) Unregister() {
	if h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
	h.hk.Unregister()
}

func (h *xHotkey) Keydown() <-chan struct{} { return h.keydown }
func (h *xHotkey) Keyup() <-chan struct{}   { return h.keyup }
