// Package workdir knows the work-directory conventions of the SIMBAD
// programs: under the run directory the program creates SIMBAD_<jobid>, or
// the next free SIMBAD_<n> when no job id is given. The launcher predicts
// that path to monitor a run it did not create itself.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Prefix is the directory-name prefix the external programs use for their
// work directories.
const Prefix = "SIMBAD_"

// Standard file names the programs write inside a work directory.
const (
	LogFileName      = "simbad.log"
	DebugLogFileName = "debug.log"
)

// Expected returns the work directory the external program will create under
// runDir for the given job id.
func Expected(runDir, jobID string) string {
	return filepath.Join(runDir, Prefix+jobID)
}

// LogPath returns the path of the run log inside a work directory.
func LogPath(workDir string) string {
	return filepath.Join(workDir, LogFileName)
}

// DebugLogPath returns the path of the debug log inside a work directory.
func DebugLogPath(workDir string) string {
	return filepath.Join(workDir, DebugLogFileName)
}

// CaptureLogPath returns the path of the launcher's own stdout/stderr capture
// for a run. It lives next to the work directory, not inside it, so the
// external program's own log files are never clobbered.
func CaptureLogPath(runDir, jobID string) string {
	return filepath.Join(runDir, Prefix+jobID+".log")
}

// OutputMTZPath returns the default reflection output path for a run, next to
// the work directory. Used when the task does not set HKLOUT itself.
func OutputMTZPath(runDir, jobID string) string {
	return filepath.Join(runDir, Prefix+jobID+".mtz")
}

// OutputPDBPath returns the default coordinate output path for a run, next to
// the work directory. Used when the task does not set XYZOUT itself.
func OutputPDBPath(runDir, jobID string) string {
	return filepath.Join(runDir, Prefix+jobID+".pdb")
}

// NextJobID returns the smallest n >= 0 for which runDir contains no
// SIMBAD_<n> entry, matching how the program allocates work directories when
// launched without a job id. A missing run directory yields 0.
func NextJobID(runDir string) (int, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read run directory %s: %w", runDir, err)
	}

	taken := make(map[int]bool)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, Prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(name, Prefix)); err == nil && n >= 0 {
			taken[n] = true
		}
	}

	next := 0
	for taken[next] {
		next++
	}
	return next, nil
}

// EnsureRunDir creates the run directory when absent. The work directory
// itself is left to the external program.
func EnsureRunDir(runDir string) error {
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory %s: %w", runDir, err)
	}
	return nil
}
