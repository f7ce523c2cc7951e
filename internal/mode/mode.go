// Package mode holds the closed set of run modes a SIMBAD task can select and
// the dispatch table that maps each registered mode to its program variant.
package mode

import (
	"fmt"
	"strings"
)

// Mode selects which SIMBAD program variant a task invokes.
type Mode string

// Declared selector values. The set is closed: a task file or flag must name
// one of these spellings (matched case-insensitively by ParseMode).
const (
	Lattice     Mode = "LATTICE"
	Contaminant Mode = "CONTAM"
	Morda       Mode = "MORDA"
	LattContam  Mode = "LATTCONTAM"
)

// programs maps registered modes to program variant names. MORDA is declared
// in the selector but carries no entry here, so selecting it resolves to an
// UnknownModeError until a variant ships.
var programs = map[Mode]string{
	Lattice:     "simbad-lattice",
	Contaminant: "simbad-contaminant",
	LattContam:  "simbad",
}

// labels maps selector values to the display labels used in listings.
var labels = map[Mode]string{
	Lattice:     "Lattice parameter search",
	Contaminant: "Contaminant search",
	Morda:       "MoRDa database search",
	LattContam:  "Lattice and contaminant search",
}

// UnknownModeError reports a mode with no entry in the program registry. It
// covers both unparseable selector spellings and declared-but-unregistered
// modes; either way the operator has to fix the task configuration.
type UnknownModeError struct {
	Mode Mode
}

// Error implements the error interface.
func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown mode %q: no program variant registered", string(e.Mode))
}

// String returns the selector spelling of the mode.
func (m Mode) String() string {
	return string(m)
}

// Label returns the display label for a declared mode, or the selector
// spelling itself for values outside the declared set.
func (m Mode) Label() string {
	if label, ok := labels[m]; ok {
		return label
	}
	return string(m)
}

// Registered reports whether the mode has a program variant in the registry.
func (m Mode) Registered() bool {
	_, ok := programs[m]
	return ok
}

// ResolveProgram returns the program variant name registered for the mode.
// It is a pure lookup with no side effects; any mode without a registry
// entry, including the declared but unregistered MORDA, yields an
// UnknownModeError.
func ResolveProgram(m Mode) (string, error) {
	program, ok := programs[m]
	if !ok {
		return "", &UnknownModeError{Mode: m}
	}
	return program, nil
}

// ParseMode maps a selector spelling to its Mode. Matching is
// case-insensitive and tolerates surrounding whitespace; CONTAMINANT is
// accepted as an alias for CONTAM. Spellings outside the declared set fail
// with an UnknownModeError.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LATTICE":
		return Lattice, nil
	case "CONTAM", "CONTAMINANT":
		return Contaminant, nil
	case "MORDA":
		return Morda, nil
	case "LATTCONTAM":
		return LattContam, nil
	}
	return "", &UnknownModeError{Mode: Mode(strings.ToUpper(strings.TrimSpace(s)))}
}

// Modes returns the declared selector values in their stable listing order.
func Modes() []Mode {
	return []Mode{Lattice, Contaminant, Morda, LattContam}
}
