package cli

import (
	"time"

	"github.com/briandowns/spinner"
)

// NewProgressSpinner returns an unstarted spinner with the given suffix text.
// Callers Start it around the slow part and Stop it before printing results.
func NewProgressSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	return s
}
