package binding

import (
	"errors"
	"slices"
	"sync"

	"murmur/capture"
	"murmur/keys"
	"murmur/log"
)

// State of the recording session state machine.
type State int

const (
	Idle State = iota
	Recording
	Committing
	Cancelling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Committing:
		return "committing"
	case Cancelling:
		return "cancelling"
	}
	return "unknown"
}

// ErrSessionActive is returned when a recording session is started for
// one slot while another slot's session is active. The start is an
// explicit rejected no-op, never queued.
var ErrSessionActive = errors.New("another recording session is active")

// Notifier receives user-visible session outcomes. Implementations must
// not block; they are called from the session goroutine.
type Notifier interface {
	SessionStarted(id string)
	SessionCommitted(id, combo string)
	SessionCanceled(id string)
	SessionFailed(id string, err error)
}

// Recorder owns the single per-process recording session. It consumes
// raw key events from the capture source and produces either a finalized
// combination (handed to the coordinator) or a cancellation.
type Recorder struct {
	coord  *Coordinator
	store  Store
	cap    capture.Capture
	os     keys.OS
	notify Notifier

	mu           sync.Mutex
	state        State
	editingID    string
	original     string
	keysHeld     map[string]struct{}
	keysRecorded []string
	cancel       chan struct{}
	sessionDone  chan struct{}
}

func NewRecorder(coord *Coordinator, store Store, cap capture.Capture, os keys.OS, notify Notifier) *Recorder {
	return &Recorder{
		coord:  coord,
		store:  store,
		cap:    cap,
		os:     os,
		notify: notify,
	}
}

// Start begins a recording session for the given slot. Starting again
// for the same slot is an idempotent no-op; starting for a different
// slot while a session is active is rejected with ErrSessionActive.
//
// The live binding is suspended asynchronously; key events are accepted
// immediately without waiting for the suspension to complete. The
// coordinator enforces ordering before the binding is re-armed.
func (r *Recorder) Start(id string) error {
	r.mu.Lock()
	if r.state != Idle {
		editing := r.editingID
		r.mu.Unlock()
		if editing == id {
			return nil
		}
		return ErrSessionActive
	}

	orig, err := r.store.GetBinding(id)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if err := r.cap.Start(); err != nil {
		r.mu.Unlock()
		return err
	}

	r.state = Recording
	r.editingID = id
	r.original = orig.CurrentBinding
	r.keysHeld = make(map[string]struct{})
	r.keysRecorded = nil
	r.cancel = make(chan struct{}, 1)
	r.sessionDone = make(chan struct{})
	cancel, done := r.cancel, r.sessionDone
	r.mu.Unlock()

	r.coord.Suspend(id)
	log.SessionEvent(id, "start")
	r.notify.SessionStarted(id)

	go r.run(cancel, done)
	return nil
}

// Cancel ends the active session without committing, mirroring Escape.
// Used for pointer clicks outside the bound control and other external
// interruptions. No-op when no session is recording.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	cancel := r.cancel
	recording := r.state == Recording
	r.mu.Unlock()
	if !recording || cancel == nil {
		return
	}
	select {
	case cancel <- struct{}{}:
	default:
	}
}

// Snapshot returns the session state for display.
func (r *Recorder) Snapshot() (State, string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.editingID, slices.Clone(r.keysRecorded)
}

func (r *Recorder) run(cancel, done chan struct{}) {
	defer close(done)
	defer r.cap.Stop()

	for {
		select {
		case ev := <-r.cap.Events():
			if r.handleKey(ev) {
				return
			}
		case <-cancel:
			r.finishCancel()
			return
		}
	}
}

// handleKey processes one raw key transition. Returns true when the
// session has reached a terminal state.
func (r *Recorder) handleKey(ev capture.Event) bool {
	if ev.Repeat {
		// Auto-repeat must not duplicate entries or reset held state.
		return false
	}

	name := keys.Normalize(ev.Code, r.os)

	if ev.Press {
		if name == "esc" {
			r.finishCancel()
			return true
		}
		r.mu.Lock()
		if _, held := r.keysHeld[name]; !held {
			r.keysHeld[name] = struct{}{}
			if !slices.Contains(r.keysRecorded, name) {
				r.keysRecorded = append(r.keysRecorded, name)
			}
		}
		r.mu.Unlock()
		return false
	}

	r.mu.Lock()
	delete(r.keysHeld, name)
	commit := len(r.keysHeld) == 0 && len(r.keysRecorded) > 0
	if commit {
		r.state = Committing
	}
	combo := keys.Serialize(r.keysRecorded)
	id := r.editingID
	r.mu.Unlock()

	if !commit {
		return false
	}

	// Leaving Recording: release capture before talking to the backend.
	r.cap.Stop()

	err := r.coord.Commit(id, combo)
	if err != nil {
		log.SessionEvent(id, "commit_failed")
		r.notify.SessionFailed(id, err)
	} else {
		log.SessionEvent(id, "commit")
		r.notify.SessionCommitted(id, combo)
	}
	r.reset()
	return true
}

func (r *Recorder) finishCancel() {
	r.mu.Lock()
	r.state = Cancelling
	id := r.editingID
	r.mu.Unlock()

	r.cap.Stop()
	log.SessionEvent(id, "cancel")
	r.notify.SessionCanceled(id)
	r.reset()

	// Nothing was mutated (mutation only happens at commit), so cancel
	// just asks for the original registration back. Issued even if the
	// suspend call is still in flight; the coordinator orders them.
	r.coord.Resume(id)
}

func (r *Recorder) reset() {
	r.mu.Lock()
	r.state = Idle
	r.editingID = ""
	r.original = ""
	r.keysHeld = nil
	r.keysRecorded = nil
	r.cancel = nil
	r.mu.Unlock()
}
