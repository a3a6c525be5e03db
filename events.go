package main

import "murmur/portal"

// EventSink abstracts the display layer. It is a superset of
// binding.Notifier so the recorder can report session outcomes straight
// into the UI.
type EventSink interface {
	SessionStarted(id string)
	SessionCommitted(id, combo string)
	SessionCanceled(id string)
	SessionFailed(id string, err error)
	HotkeyActive(id string, toggle bool)
	HotkeyInactive(id string)
	PortalUpdate(infos []portal.ShortcutInfo)
}
