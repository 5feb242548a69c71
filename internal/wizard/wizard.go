// Package wizard implements the linear step workflow engine behind the
// membership application and dues payment flows.
//
// A wizard is an ordered sequence of named steps with one-directional default
// progression. Each step may run an asynchronous side effect against an
// external collaborator before advancing; failures are captured step-locally
// and leave the wizard on the same step for retry. The submitting flag is
// reset on every exit path, including a panicking effect, so a failed call can
// never leave the flow permanently disabled.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	dErrors "neuroportal/pkg/domain-errors"
)

// StepID names one step of a wizard instance.
type StepID string

// Wizard is a single workflow instance. It is safe for concurrent use; the
// submitting flag serializes step effects so a double submit is rejected
// rather than run twice.
type Wizard struct {
	mu         sync.Mutex
	steps      []StepID
	initial    StepID
	current    int
	submitting bool
	lastError  *StepError
	stepData   map[StepID]json.RawMessage
}

// New constructs a wizard positioned at initial. An empty step list, a
// duplicate step name, or an initial step outside the list is a programmer
// error and panics.
func New(steps []StepID, initial StepID) *Wizard {
	if len(steps) == 0 {
		panic("wizard: step list cannot be empty")
	}
	seen := make(map[StepID]struct{}, len(steps))
	for _, s := range steps {
		if _, dup := seen[s]; dup {
			panic(fmt.Sprintf("wizard: duplicate step %q", s))
		}
		seen[s] = struct{}{}
	}
	w := &Wizard{
		steps:    append([]StepID(nil), steps...),
		initial:  initial,
		current:  indexOf(steps, initial),
		stepData: make(map[StepID]json.RawMessage),
	}
	if w.current < 0 {
		panic(fmt.Sprintf("wizard: initial step %q not in step list", initial))
	}
	return w
}

func indexOf(steps []StepID, step StepID) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}

// Current returns the active step.
func (w *Wizard) Current() StepID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.current]
}

// Submitting reports whether a step effect is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// LastError returns the error recorded by the most recent failed step effect,
// or nil after a success.
func (w *Wizard) LastError() *StepError {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastError
}

// Terminal reports whether the wizard sits on its final step.
func (w *Wizard) Terminal() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current == len(w.steps)-1
}

// Next advances one step. At the final step it is a no-op: the caller decides
// when a finished wizard is reset or discarded.
func (w *Wizard) Next() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current < len(w.steps)-1 {
		w.current++
	}
}

// Back moves one step backward, a no-op at the first step. Which steps offer
// backward navigation is an instance-level policy enforced by the owning
// service; the engine itself only guarantees single-step movement.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current > 0 {
		w.current--
	}
}

// RunStep executes the side effect guarding the transition out of step. On
// success it clears the last error and advances exactly one position; on
// failure it records the error, stays put, and returns the recorded
// *StepError so callers can tell a recoverable effect failure from the
// rejections below. The submitting flag is true for the whole effect duration
// and reset before RunStep returns on every path.
//
// Running a step that is not the current step returns an invariant violation:
// step N+1 cannot fire until step N's transition has completed. A step name
// outside the wizard's step list panics.
func (w *Wizard) RunStep(ctx context.Context, step StepID, effect func(context.Context) error) error {
	if indexOf(w.steps, step) < 0 {
		panic(fmt.Sprintf("wizard: unknown step %q", step))
	}

	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return dErrors.New(dErrors.CodeConflict, "a step submission is already in flight")
	}
	if w.steps[w.current] != step {
		w.mu.Unlock()
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("step %q is not active (current: %q)", step, w.steps[w.current]))
	}
	w.submitting = true
	w.mu.Unlock()

	// Reset the flag on every exit path, panics included.
	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	if err := effect(ctx); err != nil {
		stepErr := Classify(err)
		w.mu.Lock()
		w.lastError = stepErr
		w.mu.Unlock()
		return stepErr
	}

	w.mu.Lock()
	w.lastError = nil
	if w.current < len(w.steps)-1 {
		w.current++
	}
	w.mu.Unlock()
	return nil
}

// Reset returns the wizard to its initial step and clears step data and the
// last error. Used after terminal success or explicit cancellation.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = indexOf(w.steps, w.initial)
	w.lastError = nil
	w.stepData = make(map[StepID]json.RawMessage)
}

// SetStepData records the validated payload collected at a step.
func (w *Wizard) SetStepData(step StepID, payload json.RawMessage) {
	if indexOf(w.steps, step) < 0 {
		panic(fmt.Sprintf("wizard: unknown step %q", step))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stepData[step] = payload
}

// StepData returns the payload recorded for a step, or nil.
func (w *Wizard) StepData(step StepID) json.RawMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stepData[step]
}
