package binding

import (
	"fmt"
	"sync"

	"murmur/keys"
	"murmur/log"
)

// CommitError is a user-visible commit failure. The original binding was
// restored and resumed; nothing is left in a bad state.
type CommitError struct {
	ID  string
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("could not save binding %q: %v", e.ID, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// RollbackError is the more severe failure: the commit failed and the
// rollback write failed too, so the binding may be indeterminate. It is
// never swallowed into a plain CommitError.
type RollbackError struct {
	ID          string
	CommitErr   error
	RollbackErr error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("binding %q may be in an indeterminate state: commit failed (%v) and rollback failed (%v)",
		e.ID, e.CommitErr, e.RollbackErr)
}

// Coordinator sequences suspend/commit/resume against the store and the
// native backend. Resume is always causally ordered after the terminal
// commit or rollback attempt for a session, and after any in-flight
// suspend for the same id.
type Coordinator struct {
	store   Store
	backend Backend

	mu      sync.Mutex
	pending map[string]chan struct{}
}

func NewCoordinator(store Store, backend Backend) *Coordinator {
	return &Coordinator{
		store:   store,
		backend: backend,
		pending: make(map[string]chan struct{}),
	}
}

// Suspend disables live triggering of a binding while its own keys are
// being recorded. Best-effort and asynchronous: failure is logged, never
// fatal, and recording proceeds without waiting.
func (c *Coordinator) Suspend(id string) {
	done := make(chan struct{})

	c.mu.Lock()
	prev := c.pending[id]
	c.pending[id] = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if err := c.backend.SuspendBinding(id); err != nil {
			log.Warnf("suspend %q failed (recording proceeds): %v", id, err)
		}
	}()
}

// awaitSuspend blocks until any in-flight suspend for id has completed,
// so the binding is never re-armed while its suspension is still being
// processed.
func (c *Coordinator) awaitSuspend(id string) {
	c.mu.Lock()
	done := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Resume re-registers the binding from its currently persisted value.
// Invoked on every terminal path; failure is logged, not fatal.
func (c *Coordinator) Resume(id string) {
	c.awaitSuspend(id)
	if err := c.backend.ResumeBinding(id); err != nil {
		log.Errorf("resume %q failed: %v", id, err)
	}
}

// Commit persists a new binding value, then resumes registration so it
// becomes live. Two-phase: if the persist fails, the original value is
// written back and resumed, and a CommitError is returned; if the
// rollback write fails as well, a RollbackError is returned instead.
func (c *Coordinator) Commit(id, combo string) error {
	orig, err := c.store.GetBinding(id)
	if err != nil {
		c.Resume(id)
		return &CommitError{ID: id, Err: err}
	}

	if err := keys.Validate(combo); err != nil {
		c.Resume(id)
		return &CommitError{ID: id, Err: err}
	}

	if err := c.store.SetBinding(id, combo); err != nil {
		log.BindingRollback(id, err)
		if rbErr := c.store.SetBinding(id, orig.CurrentBinding); rbErr != nil {
			c.Resume(id)
			return &RollbackError{ID: id, CommitErr: err, RollbackErr: rbErr}
		}
		c.Resume(id)
		return &CommitError{ID: id, Err: err}
	}

	log.BindingChange(id, orig.CurrentBinding, combo)
	c.Resume(id)
	return nil
}

// Reset restores a binding to its default through the same commit path.
func (c *Coordinator) Reset(id string) error {
	b, err := c.store.GetBinding(id)
	if err != nil {
		return &CommitError{ID: id, Err: err}
	}
	return c.Commit(id, b.DefaultBinding)
}
