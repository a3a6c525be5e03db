package hotkey

import (
	"sync"
	"time"
)

// Hybrid interprets a binding's press/release stream as both
// tap-to-toggle and hold-to-talk on the same combination. A press
// always starts immediately; whether it ends on release (hold) or on
// the next tap (toggle) is decided by how long the key stays down.
type Hybrid struct {
	startCh chan struct{}
	stopCh  chan struct{}

	mu     sync.Mutex
	toggle bool
}

// NewHybrid consumes the keydown/keyup streams of one binding,
// typically Backend.Keydown(id) and Backend.Keyup(id). longPress is the
// hold threshold separating a tap from push-to-talk.
func NewHybrid(keydown, keyup <-chan struct{}, longPress time.Duration) *Hybrid {
	h := &Hybrid{
		startCh: make(chan struct{}, 1),
		stopCh:  make(chan struct{}, 1),
	}
	go h.run(keydown, keyup, longPress)
	return h
}

// Start signals when to begin.
func (h *Hybrid) Start() <-chan struct{} { return h.startCh }

// Stop signals when to end, for both modes.
func (h *Hybrid) Stop() <-chan struct{} { return h.stopCh }

// IsToggle reports whether the current cycle latched into toggle mode.
func (h *Hybrid) IsToggle() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.toggle
}

func (h *Hybrid) setToggle(v bool) {
	h.mu.Lock()
	h.toggle = v
	h.mu.Unlock()
}

func (h *Hybrid) run(keydown, keyup <-chan struct{}, longPress time.Duration) {
	for {
		<-keydown
		h.setToggle(false)
		h.signal(h.startCh)

		timer := time.NewTimer(longPress)
		select {
		case <-timer.C:
			// Held past the threshold: push-to-talk, ends on release.
			<-keyup
			h.signal(h.stopCh)
		case <-keyup:
			if !timer.Stop() {
				<-timer.C
			}
			// Released early: latched on until the next tap.
			h.setToggle(true)
			<-keydown
			<-keyup
			h.signal(h.stopCh)
		}
	}
}

func (h *Hybrid) signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
