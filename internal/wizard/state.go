package wizard

import (
	"encoding/json"
	"time"
)

// State is the serializable snapshot of a wizard, persisted between HTTP
// requests by a session store. The submitting flag is process-local and is
// deliberately not restored: a crashed process must not resurrect a wizard in
// a permanently-disabled state.
type State struct {
	Steps     []StepID                   `json:"steps"`
	Initial   StepID                     `json:"initial"`
	Current   StepID                     `json:"current"`
	LastError *StepError                 `json:"last_error,omitempty"`
	StepData  map[StepID]json.RawMessage `json:"step_data,omitempty"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// Snapshot captures the wizard for persistence.
func (w *Wizard) Snapshot(now time.Time) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	data := make(map[StepID]json.RawMessage, len(w.stepData))
	for step, payload := range w.stepData {
		data[step] = payload
	}
	return State{
		Steps:     append([]StepID(nil), w.steps...),
		Initial:   w.initial,
		Current:   w.steps[w.current],
		LastError: w.lastError,
		StepData:  data,
		UpdatedAt: now,
	}
}

// Restore rebuilds a wizard from a persisted snapshot. A malformed snapshot
// (unknown current step, empty step list) panics the same way New does: it
// can only arise from a defect, not from user input.
func Restore(state State) *Wizard {
	w := New(state.Steps, state.Initial)
	w.current = indexOf(w.steps, state.Current)
	if w.current < 0 {
		panic("wizard: snapshot current step not in step list")
	}
	w.lastError = state.LastError
	for step, payload := range state.StepData {
		w.stepData[step] = payload
	}
	return w
}
