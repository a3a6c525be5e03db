package hotkey

import (
	"testing"
	"time"
)

func waitStart(t *testing.T, hy *Hybrid) {
	t.Helper()
	select {
	case <-hy.Start():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for start")
	}
}

func waitStop(t *testing.T, hy *Hybrid) {
	t.Helper()
	select {
	case <-hy.Stop():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stop")
	}
}

func TestHybridLongPressIsPushToTalk(t *testing.T) {
	fk := NewFake()
	threshold := 50 * time.Millisecond
	hy := NewHybrid(fk.Keydown(), fk.Keyup(), threshold)

	fk.SimKeydown()
	waitStart(t, hy)

	time.Sleep(threshold + 20*time.Millisecond)
	if hy.IsToggle() {
		t.Error("long press latched into toggle mode")
	}
	fk.SimKeyup()
	waitStop(t, hy)
}

func TestHybridShortTapIsToggle(t *testing.T) {
	fk := NewFake()
	threshold := 200 * time.Millisecond
	hy := NewHybrid(fk.Keydown(), fk.Keyup(), threshold)

	fk.SimKeydown()
	waitStart(t, hy)
	fk.SimKeyup()

	deadline := time.Now().Add(time.Second)
	for !hy.IsToggle() {
		if time.Now().After(deadline) {
			t.Fatal("short tap never latched into toggle mode")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Still latched on: no stop until the next tap.
	select {
	case <-hy.Stop():
		t.Fatal("stop fired after short tap while still latched")
	case <-time.After(50 * time.Millisecond):
	}

	fk.SimKeydown()
	fk.SimKeyup()
	waitStop(t, hy)
}

func TestHybridAlternatingCycles(t *testing.T) {
	fk := NewFake()
	threshold := 50 * time.Millisecond
	hy := NewHybrid(fk.Keydown(), fk.Keyup(), threshold)

	// Hold cycle.
	fk.SimKeydown()
	waitStart(t, hy)
	time.Sleep(threshold + 20*time.Millisecond)
	fk.SimKeyup()
	waitStop(t, hy)

	// Tap cycle.
	fk.SimKeydown()
	waitStart(t, hy)
	fk.SimKeyup()
	time.Sleep(10 * time.Millisecond)
	fk.SimKeydown()
	fk.SimKeyup()
	waitStop(t, hy)

	// Hold again.
	fk.SimKeydown()
	waitStart(t, hy)
	time.Sleep(threshold + 20*time.Millisecond)
	fk.SimKeyup()
	waitStop(t, hy)
}
