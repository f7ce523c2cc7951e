package mode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProgram(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		program string
	}{
		{name: "lattice", mode: Lattice, program: "simbad-lattice"},
		{name: "contaminant", mode: Contaminant, program: "simbad-contaminant"},
		{name: "combined", mode: LattContam, program: "simbad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := ResolveProgram(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.program, program)

			// Pure lookup: repeated calls return the identical name.
			again, err := ResolveProgram(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, program, again)
		})
	}
}

func TestResolveProgram_Unregistered(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
	}{
		{name: "morda declared but unregistered", mode: Morda},
		{name: "value outside the declared set", mode: Mode("ROSETTA")},
		{name: "empty mode", mode: Mode("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := ResolveProgram(tt.mode)
			assert.Empty(t, program)

			var unknownErr *UnknownModeError
			require.ErrorAs(t, err, &unknownErr)
			assert.Equal(t, tt.mode, unknownErr.Mode)
			assert.Contains(t, err.Error(), string(tt.mode))
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{input: "LATTICE", want: Lattice},
		{input: "lattice", want: Lattice},
		{input: "  Lattice ", want: Lattice},
		{input: "CONTAM", want: Contaminant},
		{input: "contaminant", want: Contaminant},
		{input: "MORDA", want: Morda},
		{input: "morda", want: Morda},
		{input: "LATTCONTAM", want: LattContam},
		{input: "lattcontam", want: LattContam},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMode_Unknown(t *testing.T) {
	_, err := ParseMode("molrep")
	var unknownErr *UnknownModeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, Mode("MOLREP"), unknownErr.Mode)
}

func TestParseMode_MordaDoesNotResolve(t *testing.T) {
	// MORDA is a legal selector spelling, so parsing succeeds, but no program
	// variant is registered for it.
	m, err := ParseMode("MORDA")
	require.NoError(t, err)

	_, err = ResolveProgram(m)
	var unknownErr *UnknownModeError
	require.True(t, errors.As(err, &unknownErr))
}

func TestRegistered(t *testing.T) {
	assert.True(t, Lattice.Registered())
	assert.True(t, Contaminant.Registered())
	assert.True(t, LattContam.Registered())
	assert.False(t, Morda.Registered())
	assert.False(t, Mode("ROSETTA").Registered())
}

func TestModes(t *testing.T) {
	got := Modes()
	assert.Equal(t, []Mode{Lattice, Contaminant, Morda, LattContam}, got)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Lattice parameter search", Lattice.Label())
	assert.Equal(t, "MoRDa database search", Morda.Label())
	assert.Equal(t, "NONSUCH", Mode("NONSUCH").Label())
}
