package config

// Config is the top-level configuration structure for simbadrun.
type Config struct {
	Programs ProgramsConfig `yaml:"programs"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Results  ResultsConfig  `yaml:"results"`
}

// ProgramsConfig locates the external SIMBAD installation.
type ProgramsConfig struct {
	// BinDir is prepended to PATH when the synthesized command is executed,
	// so the opaque command string itself stays untouched. Empty means the
	// programs are expected on the inherited PATH.
	BinDir string `yaml:"binDir,omitempty"`
	// Shell runs the synthesized command via `<shell> -c <command>`.
	Shell string `yaml:"shell,omitempty"`
}

// DefaultsConfig seeds task parameters the operator did not supply.
type DefaultsConfig struct {
	NProc  int    `yaml:"nproc,omitempty"`  // default: host CPU count
	RunDir string `yaml:"runDir,omitempty"` // default run directory
}

// MonitorConfig tunes the run monitor.
type MonitorConfig struct {
	DebounceMs        int     `yaml:"debounceMs,omitempty"`        // summary watcher debounce window
	TailRatePerSecond float64 `yaml:"tailRatePerSecond,omitempty"` // max forwarded log lines per second
}

// ResultsConfig controls how search results are ranked and displayed.
type ResultsConfig struct {
	ScoreColumn string `yaml:"scoreColumn,omitempty"` // CSV column used for ranking
	Ascending   bool   `yaml:"ascending,omitempty"`   // lower scores rank first when true
	Display     int    `yaml:"display,omitempty"`     // rows shown in summaries and reports
}
