package hotkey

import (
	"murmur/capture"
	"murmur/keys"
)

// evdevHotkey matches a combination against the raw key stream. On
// Linux we read evdev directly instead of going through X11, which
// keeps the hotkey working under Wayland compositors that expose no
// X grab for background processes.
type evdevHotkey struct {
	names   map[string]struct{}
	cap     capture.Capture
	keydown chan struct{}
	keyup   chan struct{}
	stop    chan struct{}
}

func newComboHotkey(combo string, _ keys.OS) (Hotkey, error) {
	if err := keys.Validate(combo); err != nil {
		return nil, err
	}
	parts := keys.Split(combo)
	names := make(map[string]struct{}, len(parts))
	for _, name := range parts {
		names[name] = struct{}{}
	}
	return &evdevHotkey{
		names:   names,
		cap:     capture.New(),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}, nil
}

func (h *evdevHotkey) Register() error {
	if err := h.cap.Start(); err != nil {
		return err
	}
	h.stop = make(chan struct{})
	go h.match(h.stop)
	return nil
}

func (h *evdevHotkey) Unregister() {
	if h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
	h.cap.Stop()
}

func (h *evdevHotkey) Keydown() <-chan struct{} { return h.keydown }
func (h *evdevHotkey) Keyup() <-chan struct{}   { return h.keyup }

func (h *evdevHotkey) match(stop chan struct{}) {
	held := make(map[string]struct{})
	matched := false
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-h.cap.Events():
			if !ok {
				return
			}
			if ev.Repeat {
				continue
			}
			name := keys.Normalize(ev.Code, keys.OSLinux)
			if ev.Press {
				held[name] = struct{}{}
			} else {
				delete(held, name)
			}
			now := h.covered(held)
			if now == matched {
				continue
			}
			matched = now
			var out chan struct{}
			if matched {
				out = h.keydown
			} else {
				out = h.keyup
			}
			select {
			case out <- struct{}{}:
			case <-stop:
				return
			}
		}
	}
}

func (h *evdevHotkey) covered(held map[string]struct{}) bool {
	for name := range h.names {
		if _, ok := held[name]; !ok {
			return false
		}
	}
	return true
}
