package results

import (
	"fmt"
	"sort"
)

// solvedThreshold marks a refined solution: both R values below this mean the
// molecular replacement worked.
const solvedThreshold = 0.45

// Solved reports whether the entry's refinement R values mark a solution.
// Entries without both values are never solved.
func (e Entry) Solved() bool {
	rFact, okFact := e.Score("final_r_fact")
	rFree, okFree := e.Score("final_r_free")
	return okFact && okFree && rFact < solvedThreshold && rFree < solvedThreshold
}

// AnySolved reports whether any entry of the summary marks a solution.
func AnySolved(s *Summary) bool {
	for _, entry := range s.Entries {
		if entry.Solved() {
			return true
		}
	}
	return false
}

// hasColumn reports whether the summary declares the column.
func (s *Summary) hasColumn(column string) bool {
	for _, col := range s.Columns {
		if col == column {
			return true
		}
	}
	return false
}

// RankedByScore returns the entries ordered by the named numeric column,
// ascending or descending. Entries without a numeric value in that column
// rank last; ties keep their file order.
func RankedByScore(s *Summary, column string, ascending bool) ([]Entry, error) {
	if !s.hasColumn(column) {
		return nil, fmt.Errorf("summary %s has no %q column", s.Path, column)
	}

	ranked := append([]Entry(nil), s.Entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, oki := ranked[i].Score(column)
		vj, okj := ranked[j].Score(column)
		if oki != okj {
			return oki // scored entries before unscored ones
		}
		if !oki {
			return false
		}
		if ascending {
			return vi < vj
		}
		return vi > vj
	})
	return ranked, nil
}

// BestByScore returns the top-ranked entry by the named column.
func BestByScore(s *Summary, column string, ascending bool) (*Entry, error) {
	ranked, err := RankedByScore(s, column, ascending)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("summary %s has no entries", s.Path)
	}
	if _, ok := ranked[0].Score(column); !ok {
		return nil, fmt.Errorf("summary %s has no numeric %q values", s.Path, column)
	}
	best := ranked[0]
	return &best, nil
}
