// Package capture delivers raw keyboard transitions while a shortcut
// recording session is active. It is installed on entering a session and
// removed on leaving it; the recorder owns that lifecycle.
package capture

// Event is one raw key transition from the platform source. Code is the
// platform-independent physical key code ("ControlLeft", "KeyA", "F1");
// normalization to canonical names happens in the keys package.
type Event struct {
	Code   string
	Press  bool // key-down when true, key-up when false
	Repeat bool // auto-repeat key-down
}

// Capture provides exclusive raw key-event capture with press/release
// events. Start must not be called while a capture is already installed.
type Capture interface {
	Start() error
	Stop()
	Events() <-chan Event
}
