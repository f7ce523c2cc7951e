package task

import (
	"simbadrun/internal/mode"
)

// Task is the unit of configuration: a named run mode plus the parameter
// store and extension list read by the synthesizer.
type Task struct {
	Name       string
	Mode       mode.Mode
	Parameters *Parameters
	Extensions *Extensions
}

// New returns a task with empty parameter and extension stores.
func New(name string, m mode.Mode) *Task {
	return &Task{
		Name:       name,
		Mode:       m,
		Parameters: NewParameters(),
		Extensions: NewExtensions(),
	}
}

// ReplaceExtensions swaps in a fresh extension list. The list type itself is
// append-only; hosts that let the operator edit entries rebuild the list and
// install it here before synthesis.
func (t *Task) ReplaceExtensions(e *Extensions) {
	if e == nil {
		e = NewExtensions()
	}
	t.Extensions = e
}
