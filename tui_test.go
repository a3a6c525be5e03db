package main

import (
	"testing"

	"murmur/binding"
	"murmur/keys"
	"murmur/portal"
)

func newTestModel(t *testing.T) tuiModel {
	t.Helper()
	store := binding.NewFakeStore(
		binding.Binding{ID: "ptt", CurrentBinding: "ctrl+shift+space"},
		binding.Binding{ID: "toggle", CurrentBinding: "ctrl+shift+f9"},
	)
	m := tuiModel{
		store:       store,
		osName:      keys.OSLinux,
		portalInfos: make(map[string]portal.ShortcutInfo),
	}
	m.loadRows()
	return m
}

func TestPortalSnapshotReplacesWholesale(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(PortalMsg{Infos: []portal.ShortcutInfo{
		{ID: "ptt", Trigger: "Press <Control>space", HasPrintableKey: true},
		{ID: "toggle", Trigger: "Press <Control><Shift>F9"},
	}})
	m = next.(tuiModel)

	// The registry dropped ptt out-of-band; the shadow view must too.
	next, _ = m.Update(PortalMsg{Infos: []portal.ShortcutInfo{
		{ID: "toggle", Trigger: "Press <Control><Shift>F9"},
	}})
	m = next.(tuiModel)

	if _, ok := m.portalInfos["ptt"]; ok {
		t.Errorf("stale entry survived snapshot replace: %v", m.portalInfos)
	}
	if len(m.portalInfos) != 1 {
		t.Errorf("portalInfos = %v, want only toggle", m.portalInfos)
	}
}

func TestPortalSnapshotEmptyClearsView(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(PortalMsg{Infos: []portal.ShortcutInfo{
		{ID: "ptt", Trigger: "Press <Control>space", HasPrintableKey: true},
	}})
	m = next.(tuiModel)

	next, _ = m.Update(PortalMsg{Infos: nil})
	m = next.(tuiModel)

	if len(m.portalInfos) != 0 {
		t.Errorf("portalInfos = %v, want empty after empty snapshot", m.portalInfos)
	}
}
