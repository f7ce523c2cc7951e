// Package synth assembles the single shell-invokable command string for a
// configured task. Synthesis is pure: it performs no I/O, has no side
// effects, and either returns the complete string or fails with one of two
// typed errors.
package synth

import (
	"fmt"
	"strings"

	"simbadrun/internal/mode"
	"simbadrun/internal/task"
)

// MissingParameterError reports a required fixed-block key absent from the
// parameter store. The key name is surfaced so the operator can supply it.
type MissingParameterError struct {
	Key string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Key)
}

// requiredKeys lists the fixed-block parameter keys in declared order. The
// order doubles as the reporting order: a store missing several keys fails
// on the earliest one.
var requiredKeys = []string{
	task.KeyHKLIN,
	task.KeyF,
	task.KeySIGF,
	task.KeyFreeRFlag,
	task.KeyHKLOUT,
	task.KeyXYZOUT,
	task.KeyNProc,
	task.KeyRunDir,
	task.KeyJobID,
}

// RequiredKeys returns the fixed-block parameter keys in declared order.
func RequiredKeys() []string {
	keys := make([]string, len(requiredKeys))
	copy(keys, requiredKeys)
	return keys
}

// Synthesize emits the command line for the given mode, parameter store and
// extension list:
//
//	<program> <HKLIN> -F <F> -SIGF <SIGF> -FREE <FreeR_flag>
//	-output_mtz <HKLOUT> -output_pdb <XYZOUT> --display_gui
//	-nproc <NProc> -run_dir <RUN_DIR> -ccp4_jobid <JOB_ID> <extensions...>
//
// The fixed block is fully specified with no reordering or filtering;
// extension fragments follow verbatim in stored order, joined by single
// spaces. No quoting or escaping is performed: values containing whitespace
// or shell metacharacters are the caller's responsibility to pre-sanitize.
// An unregistered mode fails with a mode.UnknownModeError and an absent
// required key with a MissingParameterError; no partial string is ever
// returned. The call is idempotent over settled state.
func Synthesize(m mode.Mode, params *task.Parameters, exts *task.Extensions) (string, error) {
	program, err := mode.ResolveProgram(m)
	if err != nil {
		return "", err
	}

	if params == nil {
		return "", &MissingParameterError{Key: requiredKeys[0]}
	}

	values := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		value, ok := params.StringValue(key)
		if !ok {
			return "", &MissingParameterError{Key: key}
		}
		values[key] = value
	}

	elements := []string{
		program,
		values[task.KeyHKLIN],
		"-F", values[task.KeyF],
		"-SIGF", values[task.KeySIGF],
		"-FREE", values[task.KeyFreeRFlag],
		"-output_mtz", values[task.KeyHKLOUT],
		"-output_pdb", values[task.KeyXYZOUT],
		"--display_gui",
		"-nproc", values[task.KeyNProc],
		"-run_dir", values[task.KeyRunDir],
		"-ccp4_jobid", values[task.KeyJobID],
	}
	if exts != nil {
		elements = append(elements, exts.InOrder()...)
	}

	return strings.Join(elements, " "), nil
}
