package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"simbadrun/internal/mode"
)

// Summary file locations relative to the work directory, per search phase.
const (
	LatticeSummary     = "latt/lattice_mr.csv"
	ContaminantSummary = "cont/contaminant_mr.csv"
)

// pdbCodeColumn names the identifying column of a summary file.
const pdbCodeColumn = "pdb_code"

// Entry is one scored database hit from a summary file.
type Entry struct {
	PdbCode string
	Values  map[string]float64 // numeric cells by column name
	Fields  map[string]string  // every cell verbatim, by column name
}

// Score returns the numeric value of the named column and whether the entry
// carries one.
func (e Entry) Score(column string) (float64, bool) {
	v, ok := e.Values[column]
	return v, ok
}

// Summary is a parsed MR summary file.
type Summary struct {
	Path    string
	Columns []string
	Entries []Entry
}

// SummaryLocations returns the summary files a run in the given mode can
// produce, relative to the work directory and in search order. The combined
// driver runs the lattice phase first, so its lattice summary is checked
// before the contaminant one.
func SummaryLocations(m mode.Mode) []string {
	switch m {
	case mode.Lattice:
		return []string{LatticeSummary}
	case mode.Contaminant:
		return []string{ContaminantSummary}
	case mode.LattContam:
		return []string{LatticeSummary, ContaminantSummary}
	default:
		return nil
	}
}

// LocateSummary returns the first existing summary file for the mode under
// workDir.
func LocateSummary(workDir string, m mode.Mode) (string, bool) {
	for _, rel := range SummaryLocations(m) {
		path := filepath.Join(workDir, filepath.FromSlash(rel))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ParseSummary reads a summary CSV. The header row is required; the
// pdb_code column identifies entries. Files written with a leading unnamed
// index column are accepted, with that column standing in for pdb_code when
// no named one exists. Numeric cells land in Entry.Values; every cell is
// also kept verbatim in Entry.Fields.
func ParseSummary(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open summary %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("summary %s is empty", path)
	}

	header := records[0]
	codeIdx := -1
	for i, col := range header {
		if col == pdbCodeColumn {
			codeIdx = i
			break
		}
	}
	if codeIdx == -1 {
		if len(header) > 0 && header[0] == "" {
			codeIdx = 0
			header[0] = pdbCodeColumn
		} else {
			return nil, fmt.Errorf("summary %s has no %s column", path, pdbCodeColumn)
		}
	}

	s := &Summary{Path: path, Columns: append([]string(nil), header...)}
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		entry := Entry{
			Values: make(map[string]float64),
			Fields: make(map[string]string),
		}
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			entry.Fields[header[i]] = cell
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				entry.Values[header[i]] = v
			}
		}
		if i := codeIdx; i < len(record) {
			entry.PdbCode = record[i]
		}
		s.Entries = append(s.Entries, entry)
	}

	return s, nil
}
