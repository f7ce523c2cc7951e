package cli

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"simbadrun/internal/mode"
	"simbadrun/internal/mtz"
	"simbadrun/internal/report"
	"simbadrun/internal/task"
)

// newTable creates a table with the standard styling.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// headerRow builds a highlighted header row.
func headerRow(cols ...string) table.Row {
	row := make(table.Row, 0, len(cols))
	for _, c := range cols {
		row = append(row, text.FgHiCyan.Sprint(c))
	}
	return row
}

// ModeRow describes one registry entry for display.
type ModeRow struct {
	Mode       string `json:"mode" yaml:"mode"`
	Program    string `json:"program,omitempty" yaml:"program,omitempty"`
	Label      string `json:"label" yaml:"label"`
	Registered bool   `json:"registered" yaml:"registered"`
}

// ModeRows lists every declared mode with its registry status.
func ModeRows() []ModeRow {
	modes := mode.Modes()
	rows := make([]ModeRow, 0, len(modes))
	for _, m := range modes {
		row := ModeRow{Mode: m.String(), Label: m.Label()}
		if program, err := mode.ResolveProgram(m); err == nil {
			row.Program = program
			row.Registered = true
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderModes writes the mode registry as a table.
func RenderModes(w io.Writer, rows []ModeRow) {
	t := newTable(w)
	t.AppendHeader(headerRow("MODE", "PROGRAM", "LABEL", "REGISTERED"))
	for _, row := range rows {
		registered := "yes"
		program := row.Program
		if !row.Registered {
			registered = "no"
			program = "-"
		}
		t.AppendRow(table.Row{row.Mode, program, row.Label, registered})
	}
	t.Render()
}

// ColumnRow describes one MTZ column for display.
type ColumnRow struct {
	Label   string  `json:"label" yaml:"label"`
	Type    string  `json:"type" yaml:"type"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Dataset int     `json:"dataset" yaml:"dataset"`
}

// ColumnRows converts parsed MTZ columns into display rows.
func ColumnRows(columns []mtz.Column) []ColumnRow {
	rows := make([]ColumnRow, 0, len(columns))
	for _, c := range columns {
		rows = append(rows, ColumnRow{
			Label:   c.Label,
			Type:    string(c.Type),
			Min:     c.Min,
			Max:     c.Max,
			Dataset: c.Dataset,
		})
	}
	return rows
}

// RenderColumns writes the MTZ column catalogue as a table.
func RenderColumns(w io.Writer, rows []ColumnRow) {
	t := newTable(w)
	t.AppendHeader(headerRow("LABEL", "TYPE", "MIN", "MAX", "DATASET"))
	for _, row := range rows {
		t.AppendRow(table.Row{row.Label, row.Type, row.Min, row.Max, row.Dataset})
	}
	t.Render()
}

// RenderParameters writes the parameter store as a key/value table, keys
// sorted.
func RenderParameters(w io.Writer, params *task.Parameters) {
	t := newTable(w)
	t.AppendHeader(headerRow("KEY", "VALUE"))
	for _, key := range params.Keys() {
		value, _ := params.StringValue(key)
		t.AppendRow(table.Row{key, value})
	}
	t.Render()
}

// RenderCandidates writes ranked candidates as a table.
func RenderCandidates(w io.Writer, scoreColumn string, rows []report.Candidate) {
	t := newTable(w)
	t.AppendHeader(headerRow("RANK", "PDB CODE", scoreColumn, "SOLVED"))
	for _, row := range rows {
		solved := ""
		if row.Solved {
			solved = "yes"
		}
		t.AppendRow(table.Row{row.Rank, row.PdbCode, row.Score, solved})
	}
	t.Render()
}
