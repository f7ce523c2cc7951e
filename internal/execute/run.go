package execute

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunState represents the lifecycle state of a single external program run.
type RunState string

const (
	StatePending   RunState = "pending"
	StateStarting  RunState = "starting"
	StateRunning   RunState = "running"
	StateSucceeded RunState = "succeeded"
	StateFailed    RunState = "failed"
)

// Terminal reports whether the state is final.
func (s RunState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// StateChangeCallback is called when a run's state changes.
type StateChangeCallback func(runID string, oldState, newState RunState, err error)

// ProgramError reports that the external program exited with a non-zero
// status. The exit status is the program's own verdict; nothing about the
// run's output is interpreted here.
type ProgramError struct {
	ExitCode int
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("external program exited with status %d", e.ExitCode)
}

// Run is one launch of a synthesized command.
type Run struct {
	mu            sync.RWMutex
	id            string
	command       string
	state         RunState
	lastError     error
	stateChangeCb StateChangeCallback
	startedAt     time.Time
	finishedAt    time.Time
}

// NewRun creates a run for the given command string in the pending state.
func NewRun(command string) *Run {
	return &Run{
		id:      uuid.New().String(),
		command: command,
		state:   StatePending,
	}
}

// ID returns the run's unique identifier.
func (r *Run) ID() string {
	return r.id
}

// Command returns the command string the run was created with, verbatim.
func (r *Run) Command() string {
	return r.command
}

// State returns the current state.
func (r *Run) State() RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// LastError returns the last error recorded for the run.
func (r *Run) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastError
}

// Duration returns how long the run has been going, or its total runtime once
// finished. Zero before the run starts.
func (r *Run) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.startedAt.IsZero() {
		return 0
	}
	if r.finishedAt.IsZero() {
		return time.Since(r.startedAt)
	}
	return r.finishedAt.Sub(r.startedAt)
}

// SetStateChangeCallback sets the state change callback.
func (r *Run) SetStateChangeCallback(callback StateChangeCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stateChangeCb = callback
}

// updateState updates the run state and notifies the callback.
func (r *Run) updateState(newState RunState, err error) {
	r.mu.Lock()
	oldState := r.state
	r.state = newState
	r.lastError = err
	callback := r.stateChangeCb
	r.mu.Unlock()

	// Call the callback outside of the lock to avoid deadlocks
	if callback != nil && oldState != newState {
		callback(r.id, oldState, newState, err)
	}
}

func (r *Run) markStarted(now time.Time) {
	r.mu.Lock()
	r.startedAt = now
	r.mu.Unlock()
}

func (r *Run) markFinished(now time.Time) {
	r.mu.Lock()
	r.finishedAt = now
	r.mu.Unlock()
}
