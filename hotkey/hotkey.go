// Package hotkey owns live OS-level shortcut registration. A Backend
// tracks which binding ids are registered, enforces that no two ids
// share a combination, and implements the suspend/resume half of a
// binding change: suspend unregisters the combination for the duration
// of a recording session, resume re-reads the persisted value and
// re-registers it so a committed change takes effect without a restart.
package hotkey

import (
	"fmt"
	"sync"

	"murmur/keys"
	"murmur/log"
)

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

type Backend struct {
	lookup  func(id string) (string, error)
	os      keys.OS
	factory func(combo string, os keys.OS) (Hotkey, error)

	mu      sync.Mutex
	entries map[string]*entry
	live    map[string]string // serialized combination -> owning id
	streams map[string]*stream
}

type entry struct {
	combo string
	hk    Hotkey
	stop  chan struct{}
}

// stream is the per-id event pair handed to consumers. It outlives
// suspend/resume cycles so callers never need to resubscribe.
type stream struct {
	keydown chan struct{}
	keyup   chan struct{}
}

// NewBackend builds a backend that resolves binding ids to serialized
// combinations through lookup, typically the settings store.
func NewBackend(lookup func(id string) (string, error), os keys.OS) *Backend {
	return &Backend{
		lookup:  lookup,
		os:      os,
		factory: newComboHotkey,
		entries: make(map[string]*entry),
		live:    make(map[string]string),
		streams: make(map[string]*stream),
	}
}

// Register makes the binding's current combination live.
func (b *Backend) Register(id string) error {
	combo, err := b.lookup(id)
	if err != nil {
		return fmt.Errorf("register %s: %w", id, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.register(id, combo)
}

// register requires b.mu held.
func (b *Backend) register(id, combo string) error {
	if owner, ok := b.live[combo]; ok {
		if owner == id {
			return nil
		}
		return fmt.Errorf("register %s: %q already registered for %s", id, combo, owner)
	}
	hk, err := b.factory(combo, b.os)
	if err != nil {
		return fmt.Errorf("register %s: %w", id, err)
	}
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register %s: %w", id, err)
	}
	e := &entry{combo: combo, hk: hk, stop: make(chan struct{})}
	b.entries[id] = e
	b.live[combo] = id
	go b.forward(hk, b.streamLocked(id), e.stop)
	return nil
}

// SuspendBinding unregisters the id's combination. Suspending an id
// that is not live is a no-op; the caller treats suspension as
// best-effort.
func (b *Backend) SuspendBinding(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return nil
	}
	close(e.stop)
	e.hk.Unregister()
	delete(b.live, e.combo)
	delete(b.entries, id)
	return nil
}

// ResumeBinding re-reads the persisted combination and registers it.
// After a commit this picks up the new value; after a cancel it
// restores the old one.
func (b *Backend) ResumeBinding(id string) error {
	combo, err := b.lookup(id)
	if err != nil {
		return fmt.Errorf("resume %s: %w", id, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[id]; ok {
		if e.combo == combo {
			return nil
		}
		close(e.stop)
		e.hk.Unregister()
		delete(b.live, e.combo)
		delete(b.entries, id)
	}
	return b.register(id, combo)
}

// Active returns the live combination for an id, if any.
func (b *Backend) Active(id string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return "", false
	}
	return e.combo, true
}

// Keydown returns the press stream for a binding id. The channel is
// stable across suspend/resume.
func (b *Backend) Keydown(id string) <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streamLocked(id).keydown
}

// Keyup returns the release stream for a binding id.
func (b *Backend) Keyup(id string) <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streamLocked(id).keyup
}

func (b *Backend) streamLocked(id string) *stream {
	s, ok := b.streams[id]
	if !ok {
		s = &stream{
			keydown: make(chan struct{}, 1),
			keyup:   make(chan struct{}, 1),
		}
		b.streams[id] = s
	}
	return s
}

func (b *Backend) forward(hk Hotkey, s *stream, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-hk.Keydown():
			select {
			case s.keydown <- struct{}{}:
			case <-stop:
				return
			}
		case <-hk.Keyup():
			select {
			case s.keyup <- struct{}{}:
			case <-stop:
				return
			}
		}
	}
}

// Close unregisters everything. Used on shutdown.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, e := range b.entries {
		close(e.stop)
		e.hk.Unregister()
		delete(b.live, e.combo)
		delete(b.entries, id)
		log.Infof("unregistered %s", id)
	}
}
