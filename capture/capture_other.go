//go:build !linux

package capture

import "fmt"

type unsupportedCapture struct {
	events chan Event
}

// New returns a capture that cannot start. Raw key capture currently
// reads evdev directly; macOS and Windows would need a native hook.
func New() Capture {
	return &unsupportedCapture{events: make(chan Event)}
}

func (c *unsupportedCapture) Start() error {
	return fmt.Errorf("raw key capture not supported on this platform")
}

func (c *unsupportedCapture) Stop() {}

func (c *unsupportedCapture) Events() <-chan Event {
	return c.events
}

// Diagnose checks raw capture availability and returns a status message.
func Diagnose() (string, error) {
	return "", fmt.Errorf("raw key capture not supported on this platform")
}
