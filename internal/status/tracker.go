// internal/status/tracker.go
package status

// Tracker accumulates counters across boot sessions.
//
// The machines run on a single goroutine, so Tracker is not locked.
// A nil *Tracker discards all updates.
type Tracker struct {
	snap Snapshot
}

// NewTracker returns a tracker in the unknown state.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// SessionStarted records a new boot session on an opened port.
func (t *Tracker) SessionStarted() {
	if t == nil {
		return
	}
	t.snap.Sessions++
	t.snap.Health = HealthOK
}

// PortFailed records a session that ended on a port failure.
func (t *Tracker) PortFailed(err error) {
	if t == nil {
		return
	}
	t.snap.PortFailures++
	t.snap.Health = HealthError
	if err != nil {
		t.snap.LastError = err.Error()
	}
}

// Pushed records a completed kernel transfer of n bytes.
func (t *Tracker) Pushed(n int64) {
	if t == nil {
		return
	}
	t.snap.KernelPushes++
	t.snap.BytesPushed += n
}

// PushFailed records a failed kernel transfer attempt.
func (t *Tracker) PushFailed(err error) {
	if t == nil {
		return
	}
	t.snap.FailedPushes++
	if err != nil {
		t.snap.LastError = err.Error()
	}
}

// Snapshot returns a copy of the current counters.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	return t.snap
}
