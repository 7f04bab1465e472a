package reqtrail

import (
	"sync"
	"time"

	"github.com/reqtrail/reqtrail/pkg/lifecycle"
)

// Tracker maps in-flight request identities to their start times. An entry
// exists between the processing of a request's start and finish signals,
// exactly once; a finish removes it. If a finish never arrives the entry
// lingers, which is accepted degraded behavior, not a failure.
type Tracker struct {
	mu      sync.Mutex
	started map[lifecycle.RequestID]time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{started: make(map[lifecycle.RequestID]time.Time)}
}

// OnStart records at as the start time for id. A duplicate start signal for
// the same identity overwrites the previous entry: it is treated as a restart.
func (t *Tracker) OnStart(id lifecycle.RequestID, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started[id] = at
}

// OnFinish removes id and returns the elapsed time between its recorded start
// and at. A finish with no matching start returns zero, not an error: the
// logger may have been started after the request began.
func (t *Tracker) OnFinish(id lifecycle.RequestID, at time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	start, ok := t.started[id]
	if !ok {
		return 0
	}
	delete(t.started, id)
	return at.Sub(start)
}

// InFlight returns the number of tracked requests.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.started)
}
