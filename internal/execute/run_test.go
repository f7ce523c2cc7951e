package execute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRun(t *testing.T) {
	run := NewRun("simbad-lattice /data/toxd.mtz -F FP")

	assert.NotEmpty(t, run.ID())
	assert.Equal(t, "simbad-lattice /data/toxd.mtz -F FP", run.Command())
	assert.Equal(t, StatePending, run.State())
	assert.NoError(t, run.LastError())
	assert.Zero(t, run.Duration())
}

func TestNewRun_UniqueIDs(t *testing.T) {
	a := NewRun("true")
	b := NewRun("true")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestRunState_Terminal(t *testing.T) {
	assert.False(t, StatePending.Terminal())
	assert.False(t, StateStarting.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateSucceeded.Terminal())
	assert.True(t, StateFailed.Terminal())
}

func TestProgramError(t *testing.T) {
	err := &ProgramError{ExitCode: 3}
	assert.Equal(t, "external program exited with status 3", err.Error())
}

func TestStateChangeCallback_OnlyOnChange(t *testing.T) {
	run := NewRun("true")

	var calls int
	run.SetStateChangeCallback(func(runID string, oldState, newState RunState, err error) {
		calls++
	})

	run.updateState(StateStarting, nil)
	run.updateState(StateStarting, nil)
	run.updateState(StateRunning, nil)

	assert.Equal(t, 2, calls)
}
