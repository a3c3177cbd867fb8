package pipeline

import "sync"

// State of one record's analysis as it moves through the pipeline.
type State string

const (
	StateReceived   State = "RECEIVED"
	StateDetecting  State = "DETECTING"
	StateScoring    State = "SCORING"
	StateExplaining State = "EXPLAINING"
	StateValidating State = "VALIDATING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

// Tracker records where each in-flight record is in the pipeline, plus
// running totals of finished analyses.
type Tracker struct {
	mu     sync.RWMutex
	states map[string]State
	done   int
	failed int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]State)}
}

// SetState moves a record to the given state. Terminal states drop the
// record from the in-flight map and bump the matching counter.
func (t *Tracker) SetState(tenderID string, state State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch state {
	case StateDone:
		delete(t.states, tenderID)
		t.done++
	case StateFailed:
		delete(t.states, tenderID)
		t.failed++
	default:
		t.states[tenderID] = state
	}
}

// State returns the in-flight state for a record, or "" once the record has
// reached a terminal state.
func (t *Tracker) State(tenderID string) State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.states[tenderID]
}

// InFlightCount returns the number of records currently being analysed.
func (t *Tracker) InFlightCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.states)
}

// Counts returns totals of completed and failed analyses.
func (t *Tracker) Counts() (done, failed int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.done, t.failed
}
