package binding

import (
	"errors"
	"testing"
	"time"
)

func TestCommitPersistsThenResumes(t *testing.T) {
	store := NewFakeStore(Binding{ID: "ptt", CurrentBinding: "ctrl+shift+space"})
	backend := NewFakeBackend()
	coord := NewCoordinator(store, backend)

	if err := coord.Commit("ptt", "ctrl+shift+f1"); err != nil {
		t.Fatal(err)
	}

	b, err := store.GetBinding("ptt")
	if err != nil {
		t.Fatal(err)
	}
	if b.CurrentBinding != "ctrl+shift+f1" {
		t.Errorf("binding = %q, want ctrl+shift+f1", b.CurrentBinding)
	}
	if got := backend.Resumes(); len(got) != 1 || got[0] != "ptt" {
		t.Errorf("resumes = %v, want [ptt]", got)
	}
}

func TestCommitFailureRollsBack(t *testing.T) {
	store := NewFakeStore(Binding{ID: "ptt", CurrentBinding: "ctrl+shift+space"})
	backend := NewFakeBackend()
	coord := NewCoordinator(store, backend)

	store.FailNextSets(1)
	err := coord.Commit("ptt", "ctrl+shift+f1")

	var ce *CommitError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CommitError", err)
	}

	// Failed commit followed by a rollback write of the original.
	calls := store.SetCalls()
	if len(calls) != 2 {
		t.Fatalf("set calls = %v, want 2", calls)
	}
	if calls[0] != (SetCall{ID: "ptt", Combo: "ctrl+shift+f1"}) {
		t.Errorf("first set = %v", calls[0])
	}
	if calls[1] != (SetCall{ID: "ptt", Combo: "ctrl+shift+space"}) {
		t.Errorf("rollback set = %v", calls[1])
	}

	b, _ := store.GetBinding("ptt")
	if b.CurrentBinding != "ctrl+shift+space" {
		t.Errorf("binding = %q, want original", b.CurrentBinding)
	}
	if got := backend.Resumes(); len(got) != 1 {
		t.Errorf("resumes = %v, want one resume after rollback", got)
	}
}

func TestRollbackFailureIsDistinct(t *testing.T) {
	store := NewFakeStore(Binding{ID: "ptt", CurrentBinding: "ctrl+shift+space"})
	backend := NewFakeBackend()
	coord := NewCoordinator(store, backend)

	store.FailAllSets()
	err := coord.Commit("ptt", "ctrl+shift+f1")

	var re *RollbackError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RollbackError", err)
	}
	var ce *CommitError
	if errors.As(err, &ce) {
		t.Error("RollbackError must not be a CommitError")
	}
	if re.CommitErr == nil || re.RollbackErr == nil {
		t.Errorf("RollbackError missing causes: %+v", re)
	}
	// Resume is still issued even after a failed rollback.
	if got := backend.Resumes(); len(got) != 1 {
		t.Errorf("resumes = %v, want one", got)
	}
}

func TestCommitRejectsModifierOnly(t *testing.T) {
	store := NewFakeStore(Binding{ID: "ptt", CurrentBinding: "ctrl+shift+space"})
	backend := NewFakeBackend()
	coord := NewCoordinator(store, backend)

	err := coord.Commit("ptt", "ctrl+shift")
	var ce *CommitError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CommitError", err)
	}
	if len(store.SetCalls()) != 0 {
		t.Error("invalid combo must not reach the store")
	}
	if got := backend.Resumes(); len(got) != 1 {
		t.Errorf("resumes = %v, want one", got)
	}
}

func TestResumeWaitsForInFlightSuspend(t *testing.T) {
	store := NewFakeStore(Binding{ID: "ptt", CurrentBinding: "ctrl+shift+space"})
	backend := NewFakeBackend()
	backend.SuspendGate = make(chan struct{})
	coord := NewCoordinator(store, backend)

	coord.Suspend("ptt")

	resumed := make(chan struct{})
	go func() {
		coord.Resume("ptt")
		close(resumed)
	}()

	select {
	case <-resumed:
		t.Fatal("resume completed while suspend still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(backend.SuspendGate)
	select {
	case <-resumed:
	case <-time.After(time.Second):
		t.Fatal("resume never completed")
	}

	if got := backend.Suspends(); len(got) != 1 {
		t.Errorf("suspends = %v", got)
	}
	if got := backend.Resumes(); len(got) != 1 {
		t.Errorf("resumes = %v", got)
	}
}

func TestSuspendFailureIsNotFatal(t *testing.T) {
	store := NewFakeStore(Binding{ID: "ptt", CurrentBinding: "ctrl+shift+space"})
	backend := NewFakeBackend()
	backend.SuspendErr = errors.New("backend down")
	coord := NewCoordinator(store, backend)

	coord.Suspend("ptt")
	// A later commit still succeeds despite the failed suspend.
	if err := coord.Commit("ptt", "f5"); err != nil {
		t.Fatalf("commit after failed suspend: %v", err)
	}
}

func TestResetGoesThroughCommit(t *testing.T) {
	store := NewFakeStore(Binding{
		ID:             "ptt",
		CurrentBinding: "ctrl+shift+f1",
		DefaultBinding: "ctrl+shift+space",
	})
	backend := NewFakeBackend()
	coord := NewCoordinator(store, backend)

	if err := coord.Reset("ptt"); err != nil {
		t.Fatal(err)
	}
	b, _ := store.GetBinding("ptt")
	if b.CurrentBinding != "ctrl+shift+space" {
		t.Errorf("binding = %q, want default", b.CurrentBinding)
	}
	if got := backend.Resumes(); len(got) != 1 {
		t.Errorf("resumes = %v, want one", got)
	}
}
