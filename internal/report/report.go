// Package report renders a plain-text summary of a finished run: identity,
// outcome, the exact command line, and the top-ranked candidates.
package report

import (
	"io"
	"strconv"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"simbadrun/internal/mode"
	"simbadrun/internal/results"
)

const reportText = `{{ repeat 72 "=" }}
SIMBAD RUN REPORT
{{ repeat 72 "=" }}
Task:       {{ .TaskName | default "(unnamed)" }}
Mode:       {{ .Mode }} ({{ .ModeLabel }})
Program:    {{ .Program }}
Run ID:     {{ .RunID }}
State:      {{ .State | upper }}
Exit code:  {{ .ExitCode }}
Duration:   {{ .Duration }}
Work dir:   {{ .WorkDir | default "-" }}
Run log:    {{ .LogPath | default "-" }}

Command:
  {{ .Command }}
{{- if .Candidates }}

Candidates by {{ .ScoreColumn }}:
{{- range .Candidates }}
  {{ printf "%3d" .Rank }}. {{ printf "%-8s" .PdbCode }} {{ printf "%10s" .Score }}{{ if .Solved }}  solved{{ end }}
{{- end }}

Solution found: {{ if .Solved }}yes{{ else }}no{{ end }}
{{- end }}
{{- if .OutputsCopied }}

Refinement output:
  PDB: {{ .OutputPDB }}
  MTZ: {{ .OutputMTZ }}
{{- end }}
`

var reportTemplate = template.Must(
	template.New("report").Funcs(sprig.TxtFuncMap()).Parse(reportText),
)

// Candidate is one ranked search hit formatted for display.
type Candidate struct {
	Rank    int
	PdbCode string
	Score   string
	Solved  bool
}

// Data is everything the run report shows.
type Data struct {
	TaskName  string
	Mode      mode.Mode
	ModeLabel string
	Program   string
	Command   string
	RunID     string
	State     string
	ExitCode  int
	Duration  time.Duration
	WorkDir   string
	LogPath   string

	ScoreColumn string
	Candidates  []Candidate
	Solved      bool

	OutputPDB     string
	OutputMTZ     string
	OutputsCopied bool
}

// Candidates formats the first limit ranked entries for display. A limit of
// zero or less keeps them all. Entries without a score show "-".
func Candidates(ranked []results.Entry, scoreColumn string, limit int) []Candidate {
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}

	rows := make([]Candidate, 0, limit)
	for i, e := range ranked[:limit] {
		score := "-"
		if v, ok := e.Score(scoreColumn); ok {
			score = strconv.FormatFloat(v, 'f', 4, 64)
		}
		rows = append(rows, Candidate{
			Rank:    i + 1,
			PdbCode: e.PdbCode,
			Score:   score,
			Solved:  e.Solved(),
		})
	}
	return rows
}

// Render writes the report for data to w.
func Render(w io.Writer, data Data) error {
	return reportTemplate.Execute(w, data)
}
