package config

import "runtime"

const (
	// DefaultShell runs the synthesized command line.
	DefaultShell = "/bin/sh"

	// DefaultScoreColumn is the conventional ranking column of the MR summary.
	DefaultScoreColumn = "final_r_free"

	// DefaultDebounceMs is the summary watcher debounce window.
	DefaultDebounceMs = 500

	// DefaultTailRatePerSecond caps how fast tailed log lines are forwarded.
	DefaultTailRatePerSecond = 20

	// DefaultResultsDisplay is how many ranked rows summaries show.
	DefaultResultsDisplay = 10
)

// GetDefaultConfig returns the built-in configuration. The processor count
// is queried from the host; the run directory defaults to the working
// directory the launcher is invoked from.
func GetDefaultConfig() Config {
	return Config{
		Programs: ProgramsConfig{
			Shell: DefaultShell,
		},
		Defaults: DefaultsConfig{
			NProc:  runtime.NumCPU(),
			RunDir: ".",
		},
		Monitor: MonitorConfig{
			DebounceMs:        DefaultDebounceMs,
			TailRatePerSecond: DefaultTailRatePerSecond,
		},
		Results: ResultsConfig{
			ScoreColumn: DefaultScoreColumn,
			Ascending:   true,
			Display:     DefaultResultsDisplay,
		},
	}
}
