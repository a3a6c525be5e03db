package binding

import (
	"fmt"
	"sync"
)

// FakeStore is an in-memory Store for tests. FailNextSet makes the next
// SetBinding call fail, which exercises the rollback paths.
type FakeStore struct {
	mu       sync.Mutex
	bindings map[string]Binding
	sets     []SetCall
	failSets int
	failAll  bool
}

type SetCall struct {
	ID    string
	Combo string
}

func NewFakeStore(defaults ...Binding) *FakeStore {
	m := make(map[string]Binding, len(defaults))
	for _, b := range defaults {
		if b.DefaultBinding == "" {
			b.DefaultBinding = b.CurrentBinding
		}
		m[b.ID] = b
	}
	return &FakeStore{bindings: m}
}

func (s *FakeStore) GetBinding(id string) (Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[id]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %q", ErrBindingNotFound, id)
	}
	return b, nil
}

func (s *FakeStore) SetBinding(id, combo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append(s.sets, SetCall{ID: id, Combo: combo})
	if s.failAll || s.failSets > 0 {
		s.failSets--
		return fmt.Errorf("fake store write failure")
	}
	b, ok := s.bindings[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrBindingNotFound, id)
	}
	b.CurrentBinding = combo
	s.bindings[id] = b
	return nil
}

func (s *FakeStore) ResetBinding(id string) error {
	s.mu.Lock()
	b, ok := s.bindings[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrBindingNotFound, id)
	}
	return s.SetBinding(id, b.DefaultBinding)
}

func (s *FakeStore) Bindings() ([]Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Binding, 0, len(s.bindings))
	for _, b := range s.bindings {
		out = append(out, b)
	}
	return out, nil
}

// FailNextSets makes the next n SetBinding calls fail.
func (s *FakeStore) FailNextSets(n int) {
	s.mu.Lock()
	s.failSets = n
	s.mu.Unlock()
}

// FailAllSets makes every SetBinding call fail, including rollbacks.
func (s *FakeStore) FailAllSets() {
	s.mu.Lock()
	s.failAll = true
	s.mu.Unlock()
}

func (s *FakeStore) SetCalls() []SetCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SetCall, len(s.sets))
	copy(out, s.sets)
	return out
}

// FakeBackend records suspend/resume calls for tests.
type FakeBackend struct {
	mu         sync.Mutex
	suspends   []string
	resumes    []string
	SuspendErr error
	ResumeErr  error

	// SuspendGate, when non-nil, blocks SuspendBinding until closed,
	// simulating an in-flight suspend call.
	SuspendGate chan struct{}
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

func (b *FakeBackend) SuspendBinding(id string) error {
	if b.SuspendGate != nil {
		<-b.SuspendGate
	}
	b.mu.Lock()
	b.suspends = append(b.suspends, id)
	b.mu.Unlock()
	return b.SuspendErr
}

func (b *FakeBackend) ResumeBinding(id string) error {
	b.mu.Lock()
	b.resumes = append(b.resumes, id)
	b.mu.Unlock()
	return b.ResumeErr
}

func (b *FakeBackend) Suspends() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.suspends))
	copy(out, b.suspends)
	return out
}

func (b *FakeBackend) Resumes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.resumes))
	copy(out, b.resumes)
	return out
}
