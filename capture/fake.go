package capture

import (
	"fmt"
	"sync"
)

// FakeCapture drives the recorder in tests and counts installs to catch
// double-installation.
type FakeCapture struct {
	events chan Event

	mu        sync.Mutex
	installed bool
	Installs  int
	Removes   int
	FailStart bool
}

func NewFake() *FakeCapture {
	return &FakeCapture{events: make(chan Event, 16)}
}

func (f *FakeCapture) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailStart {
		return fmt.Errorf("fake capture start failure")
	}
	if f.installed {
		return fmt.Errorf("key capture already installed")
	}
	f.installed = true
	f.Installs++
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.installed {
		return
	}
	f.installed = false
	f.Removes++
}

func (f *FakeCapture) Events() <-chan Event { return f.events }

func (f *FakeCapture) Installed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installed
}

func (f *FakeCapture) SimKey(code string, press bool) {
	f.events <- Event{Code: code, Press: press}
}

func (f *FakeCapture) SimRepeat(code string) {
	f.events <- Event{Code: code, Press: true, Repeat: true}
}
