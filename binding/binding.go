// Package binding owns shortcut binding slots: the persisted settings
// store, the transaction coordinator that talks to the native hotkey
// backend, and the recording session state machine that captures a new
// key combination.
package binding

import "errors"

// Binding is one configurable shortcut slot. CurrentBinding is the
// canonical "+"-joined storage form (e.g. "ctrl+shift+f1").
type Binding struct {
	ID             string
	CurrentBinding string
	DefaultBinding string
}

// Store persists bindings. Only the coordinator mutates them; the
// recording session just requests mutations.
type Store interface {
	GetBinding(id string) (Binding, error)
	SetBinding(id, combo string) error
	ResetBinding(id string) error
	Bindings() ([]Binding, error)
}

// Backend owns the live OS-level hotkey registration for each binding.
// Suspend disables triggering without touching the stored value; Resume
// re-registers from the currently persisted value.
type Backend interface {
	SuspendBinding(id string) error
	ResumeBinding(id string) error
}

// ErrBindingNotFound is returned by stores for an unknown slot id.
var ErrBindingNotFound = errors.New("binding not found")
