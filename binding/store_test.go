package binding

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	store, err := NewFileStore(path, []Binding{
		{ID: "ptt", DefaultBinding: "ctrl+shift+space"},
		{ID: "toggle", DefaultBinding: "super+t"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return store, path
}

func TestFileStoreDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	b, err := store.GetBinding("ptt")
	if err != nil {
		t.Fatal(err)
	}
	if b.CurrentBinding != "ctrl+shift+space" {
		t.Errorf("current = %q, want default", b.CurrentBinding)
	}
	if b.DefaultBinding != "ctrl+shift+space" {
		t.Errorf("default = %q", b.DefaultBinding)
	}
}

func TestFileStoreSetPersists(t *testing.T) {
	store, path := newTestStore(t)

	if err := store.SetBinding("ptt", "ctrl+shift+f1"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("settings file not written: %v", err)
	}

	// A fresh store reads the persisted value, not the default.
	reopened, err := NewFileStore(path, []Binding{
		{ID: "ptt", DefaultBinding: "ctrl+shift+space"},
		{ID: "toggle", DefaultBinding: "super+t"},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := reopened.GetBinding("ptt")
	if err != nil {
		t.Fatal(err)
	}
	if b.CurrentBinding != "ctrl+shift+f1" {
		t.Errorf("current = %q, want ctrl+shift+f1", b.CurrentBinding)
	}
	if b.DefaultBinding != "ctrl+shift+space" {
		t.Errorf("default = %q, want ctrl+shift+space", b.DefaultBinding)
	}
}

func TestFileStoreReset(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SetBinding("ptt", "f5"); err != nil {
		t.Fatal(err)
	}
	if err := store.ResetBinding("ptt"); err != nil {
		t.Fatal(err)
	}
	b, _ := store.GetBinding("ptt")
	if b.CurrentBinding != "ctrl+shift+space" {
		t.Errorf("current = %q, want default after reset", b.CurrentBinding)
	}
}

func TestFileStoreUnknownID(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.GetBinding("nope"); !errors.Is(err, ErrBindingNotFound) {
		t.Errorf("get err = %v, want ErrBindingNotFound", err)
	}
	if err := store.SetBinding("nope", "f5"); !errors.Is(err, ErrBindingNotFound) {
		t.Errorf("set err = %v, want ErrBindingNotFound", err)
	}
	if err := store.ResetBinding("nope"); !errors.Is(err, ErrBindingNotFound) {
		t.Errorf("reset err = %v, want ErrBindingNotFound", err)
	}
}

func TestFileStoreBindingsSorted(t *testing.T) {
	store, _ := newTestStore(t)

	all, err := store.Bindings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].ID != "ptt" || all[1].ID != "toggle" {
		t.Errorf("order = %s, %s", all[0].ID, all[1].ID)
	}
}
