package hotkey

import (
	"strings"
	"sync"
	"testing"
	"time"

	"murmur/keys"
)

// comboTable is a mutable lookup source standing in for the settings
// store.
type comboTable struct {
	mu     sync.Mutex
	combos map[string]string
}

func (c *comboTable) lookup(id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.combos[id], nil
}

func (c *comboTable) set(id, combo string) {
	c.mu.Lock()
	c.combos[id] = combo
	c.mu.Unlock()
}

// testBackend swaps the platform factory for one that hands out fakes
// and records them by combination.
func testBackend(t *testing.T, combos map[string]string) (*Backend, *comboTable, map[string]*FakeHotkey) {
	t.Helper()
	table := &comboTable{combos: combos}
	created := make(map[string]*FakeHotkey)
	b := NewBackend(table.lookup, keys.OSLinux)
	b.factory = func(combo string, _ keys.OS) (Hotkey, error) {
		f := NewFake()
		f.Combo = combo
		created[combo] = f
		return f, nil
	}
	return b, table, created
}

func TestBackendRejectsDuplicateCombo(t *testing.T) {
	b, _, _ := testBackend(t, map[string]string{
		"ptt":    "ctrl+shift+space",
		"toggle": "ctrl+shift+space",
	})

	if err := b.Register("ptt"); err != nil {
		t.Fatal(err)
	}
	err := b.Register("toggle")
	if err == nil {
		t.Fatal("second id registered the same combination")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("err = %v", err)
	}
	// Registering the same id again is a no-op, not a conflict.
	if err := b.Register("ptt"); err != nil {
		t.Errorf("re-register same id: %v", err)
	}
}

func TestBackendResumePicksUpNewCombo(t *testing.T) {
	b, table, created := testBackend(t, map[string]string{"ptt": "ctrl+shift+space"})

	if err := b.Register("ptt"); err != nil {
		t.Fatal(err)
	}
	if err := b.SuspendBinding("ptt"); err != nil {
		t.Fatal(err)
	}
	if created["ctrl+shift+space"].Registered() {
		t.Error("old combination still registered after suspend")
	}

	table.set("ptt", "ctrl+shift+f1")
	if err := b.ResumeBinding("ptt"); err != nil {
		t.Fatal(err)
	}

	combo, ok := b.Active("ptt")
	if !ok || combo != "ctrl+shift+f1" {
		t.Errorf("active = %q %v, want new combination", combo, ok)
	}
	if !created["ctrl+shift+f1"].Registered() {
		t.Error("new combination not registered")
	}
}

func TestBackendSuspendIsIdempotent(t *testing.T) {
	b, _, _ := testBackend(t, map[string]string{"ptt": "ctrl+shift+space"})

	if err := b.SuspendBinding("ptt"); err != nil {
		t.Errorf("suspend of unregistered id: %v", err)
	}
	if err := b.Register("ptt"); err != nil {
		t.Fatal(err)
	}
	if err := b.SuspendBinding("ptt"); err != nil {
		t.Fatal(err)
	}
	if err := b.SuspendBinding("ptt"); err != nil {
		t.Errorf("second suspend: %v", err)
	}
}

func TestBackendResumeWithUnchangedComboIsNoop(t *testing.T) {
	b, _, created := testBackend(t, map[string]string{"ptt": "ctrl+shift+space"})

	if err := b.Register("ptt"); err != nil {
		t.Fatal(err)
	}
	if err := b.ResumeBinding("ptt"); err != nil {
		t.Fatal(err)
	}
	created["ctrl+shift+space"].mu.Lock()
	unregs := created["ctrl+shift+space"].unregisters
	created["ctrl+shift+space"].mu.Unlock()
	if unregs != 0 {
		t.Errorf("unregisters = %d, want 0 when combo unchanged", unregs)
	}
}

func TestBackendStreamsSurviveResume(t *testing.T) {
	b, table, created := testBackend(t, map[string]string{"ptt": "ctrl+shift+space"})

	keydown := b.Keydown("ptt")
	if err := b.Register("ptt"); err != nil {
		t.Fatal(err)
	}

	created["ctrl+shift+space"].SimKeydown()
	waitSignal(t, keydown)

	table.set("ptt", "f5")
	if err := b.ResumeBinding("ptt"); err != nil {
		t.Fatal(err)
	}

	// Same consumer channel keeps delivering from the new registration.
	created["f5"].SimKeydown()
	waitSignal(t, keydown)
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for signal")
	}
}
