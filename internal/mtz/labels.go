package mtz

import "strings"

// Labels holds column labels suggested from a catalogue for the conventional
// task parameters. Absent suggestions are empty strings.
type Labels struct {
	F         string
	SigF      string
	FPlus     string
	SigFPlus  string
	FMinus    string
	SigFMinus string
	Free      string
}

// SuggestLabels derives default column labels from a catalogue:
//
//   - F: the first plain amplitude column (Friedel-pair members carrying
//     "(+)" or "(-)" in their label are skipped).
//   - SigF: the sigma column labeled SIG<F>.
//   - FPlus/FMinus: the first Friedel-pair amplitude per hand, with their
//     SIG<label> sigmas.
//   - Free: the first integer column whose label mentions FREE.
//
// The suggestions mirror how the search pipeline reads a truncated data set;
// the operator can always override them in the task parameters.
func SuggestLabels(columns []Column) Labels {
	var l Labels

	byLabel := make(map[string]Column, len(columns))
	for _, col := range columns {
		byLabel[col.Label] = col
	}

	for _, col := range columns {
		switch col.Type {
		case TypeAmplitude:
			if strings.Contains(col.Label, "(+)") || strings.Contains(col.Label, "(-)") {
				continue
			}
			if l.F == "" {
				l.F = col.Label
			}
		case TypeAmplitudeFriedel:
			if l.FPlus == "" && strings.Contains(col.Label, "(+)") {
				l.FPlus = col.Label
			}
			if l.FMinus == "" && strings.Contains(col.Label, "(-)") {
				l.FMinus = col.Label
			}
		case TypeInteger:
			if l.Free == "" && strings.Contains(strings.ToUpper(col.Label), "FREE") {
				l.Free = col.Label
			}
		}
	}

	l.SigF = sigmaFor(byLabel, l.F, TypeSigma)
	l.SigFPlus = sigmaFor(byLabel, l.FPlus, TypeSigmaFriedel)
	l.SigFMinus = sigmaFor(byLabel, l.FMinus, TypeSigmaFriedel)
	return l
}

// sigmaFor looks up the SIG<label> partner of an amplitude column. Plain
// sigma columns (type Q) are accepted for Friedel pairs too since older
// files type them that way.
func sigmaFor(byLabel map[string]Column, label string, want byte) string {
	if label == "" {
		return ""
	}
	col, ok := byLabel["SIG"+label]
	if !ok {
		return ""
	}
	if col.Type == want || col.Type == TypeSigma {
		return col.Label
	}
	return ""
}
