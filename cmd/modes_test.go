package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func setModesFormat(t *testing.T, format string) {
	t.Helper()
	orig := modesOutputFormat
	t.Cleanup(func() { modesOutputFormat = orig })
	modesOutputFormat = format
}

func TestRunModesTable(t *testing.T) {
	setModesFormat(t, "table")

	testCmd := &cobra.Command{}
	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	if err := runModes(testCmd, []string{}); err != nil {
		t.Fatalf("Error running modes: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"LATTICE", "CONTAM", "LATTCONTAM", "MORDA", "simbad-lattice", "simbad-contaminant"} {
		if !strings.Contains(output, want) {
			t.Errorf("Modes output should contain %q. Got: %q", want, output)
		}
	}
}

func TestRunModesJSON(t *testing.T) {
	setModesFormat(t, "json")

	testCmd := &cobra.Command{}
	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	if err := runModes(testCmd, []string{}); err != nil {
		t.Fatalf("Error running modes: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"mode": "LATTICE"`) {
		t.Errorf("JSON output should list the lattice mode. Got: %q", output)
	}
	// Morda is declared but has no registered program variant.
	if !strings.Contains(output, `"registered": false`) {
		t.Errorf("JSON output should mark unregistered modes. Got: %q", output)
	}
}

func TestRunModesBadFormat(t *testing.T) {
	setModesFormat(t, "csv")

	testCmd := &cobra.Command{}
	err := runModes(testCmd, []string{})
	if err == nil {
		t.Fatal("Expected error for unsupported output format")
	}
}
