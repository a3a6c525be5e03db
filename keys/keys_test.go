package keys

import "testing"

func TestNormalizeModifiers(t *testing.T) {
	cases := []struct {
		raw  string
		os   OS
		want string
	}{
		{"ControlLeft", OSWindows, "ctrl"},
		{"ControlRight", OSLinux, "ctrl"},
		{"ShiftLeft", OSWindows, "shift"},
		{"AltRight", OSLinux, "alt"},
		{"MetaLeft", OSMac, "super"},
		{"MetaLeft", OSWindows, "super"},
		{"Command", OSMac, "super"},
		{"Option", OSMac, "alt"},
		{"Win", OSWindows, "super"},
		{"SuperLeft", OSLinux, "super"},
	}
	for _, c := range cases {
		if got := Normalize(c.raw, c.os); got != c.want {
			t.Errorf("Normalize(%q, %s) = %q, want %q", c.raw, c.os, got, c.want)
		}
	}
}

func TestNormalizeKeys(t *testing.T) {
	cases := []struct {
		raw, want string
	}{
		{"KeyA", "a"},
		{"KeyZ", "z"},
		{"Digit0", "0"},
		{"Digit9", "9"},
		{"F1", "f1"},
		{"F24", "f24"},
		{"Space", "space"},
		{"Escape", "esc"},
		{"ArrowUp", "up"},
		{"Numpad5", "kp5"},
		{"NumpadEnter", "kpenter"},
		{"Comma", ","},
	}
	for _, c := range cases {
		if got := Normalize(c.raw, OSLinux); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalizeIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Normalize("ControlLeft", OSWindows); got != "ctrl" {
			t.Fatalf("call %d: got %q", i, got)
		}
	}
}

func TestNormalizeFallback(t *testing.T) {
	// Unknown hardware input must map to a literal, never fail.
	if got := Normalize("WakeUp", OSLinux); got != "wakeup" {
		t.Errorf("got %q, want wakeup", got)
	}
	if got := Normalize("  LaunchApp2 ", OSUnknown); got != "launchapp2" {
		t.Errorf("got %q, want launchapp2", got)
	}
}

func TestIsModifier(t *testing.T) {
	for _, m := range []string{"ctrl", "alt", "shift", "super"} {
		if !IsModifier(m) {
			t.Errorf("IsModifier(%q) = false", m)
		}
	}
	for _, k := range []string{"a", "f1", "space", "cmd"} {
		if IsModifier(k) {
			t.Errorf("IsModifier(%q) = true", k)
		}
	}
}

func TestFromGOOS(t *testing.T) {
	cases := map[string]OS{
		"darwin":  OSMac,
		"windows": OSWindows,
		"linux":   OSLinux,
		"plan9":   OSUnknown,
	}
	for goos, want := range cases {
		if got := fromGOOS(goos); got != want {
			t.Errorf("fromGOOS(%q) = %s, want %s", goos, got, want)
		}
	}
}

func TestDetectCached(t *testing.T) {
	if Detect() != Detect() {
		t.Error("Detect not stable across calls")
	}
}
