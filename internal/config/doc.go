// Package config loads and stores simbadrun's configuration.
//
// Configuration lives in a single directory (default ~/.config/simbadrun):
//
//	config.yaml   launcher settings
//	tasks/        named task definitions managed by TaskStore
//
// Loading semantics:
//
// LoadConfig starts from GetDefaultConfig and overlays whatever config.yaml
// declares, so partial files are fine and absent keys keep their defaults.
// A missing config.yaml is a normal first-run state, not an error; a
// malformed one aborts with a wrapped error because silently falling back to
// defaults would mask an operator mistake.
//
// Defaults worth knowing:
//
//   - defaults.nproc: the host CPU count
//   - results.scoreColumn: final_r_free, ranked ascending
//   - monitor.debounceMs / tailRatePerSecond: watcher tuning
//
// TaskStore gives named task definitions a stable home so that
// `simbadrun configure` can save a task once and `simbadrun run <name>` can
// rerun it later. Names are sanitized into safe file names; contents are the
// same YAML the task loader reads and writes.
package config
