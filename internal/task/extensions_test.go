package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensions_OrderPreserved(t *testing.T) {
	e := NewExtensions()
	e.Append("-a 1")
	e.Append("-b 2")
	e.Append("-a 3")

	assert.Equal(t, []string{"-a 1", "-b 2", "-a 3"}, e.InOrder())
	assert.Equal(t, 3, e.Len())
}

func TestExtensions_OpaqueFragments(t *testing.T) {
	// Fragments are never parsed or validated; arbitrary text is stored as-is.
	e := NewExtensions()
	e.Append("--no_gui false && echo injected")
	e.Append("   leading and trailing   ")
	e.Append("")

	assert.Equal(t, []string{
		"--no_gui false && echo injected",
		"   leading and trailing   ",
		"",
	}, e.InOrder())
}

func TestExtensions_DuplicateFlagsPermitted(t *testing.T) {
	e := NewExtensions("-nproc 2")
	e.Append("-nproc 8")

	assert.Equal(t, []string{"-nproc 2", "-nproc 8"}, e.InOrder())
}

func TestExtensions_InOrderReturnsCopy(t *testing.T) {
	e := NewExtensions("-x yes")

	first := e.InOrder()
	first[0] = "mutated"

	assert.Equal(t, []string{"-x yes"}, e.InOrder())
}

func TestExtensions_Seeded(t *testing.T) {
	e := NewExtensions("-a 1", "-b 2")
	assert.Equal(t, []string{"-a 1", "-b 2"}, e.InOrder())
}
