//go:build !linux

package portal

import "fmt"

// Watcher is a no-op off Linux; only Wayland routes global shortcuts
// through a portal.
type Watcher struct {
	state   *State
	updates chan []ShortcutInfo
}

func NewWatcher(state *State) *Watcher {
	return &Watcher{state: state, updates: make(chan []ShortcutInfo)}
}

func (w *Watcher) Updates() <-chan []ShortcutInfo {
	return w.updates
}

func (w *Watcher) Start() error {
	return fmt.Errorf("desktop portal is not available on this platform")
}

func (w *Watcher) Stop() {}
