package execute

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"simbadrun/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// defaultShell is used when Options.Shell is empty.
const defaultShell = "/bin/sh"

// maxLineLength bounds a single captured output line. Refinement tables can
// produce very long lines.
const maxLineLength = 1024 * 1024

// Options control how a run is launched.
type Options struct {
	// Shell is the command interpreter. Defaults to /bin/sh.
	Shell string

	// BinDir, when set, is prepended to PATH in the child's environment so
	// the program variant resolves from there first. The command string
	// itself is never modified.
	BinDir string

	// Dir is the working directory for the child process. Empty means the
	// launcher's own working directory.
	Dir string

	// Env holds extra environment variables for the child, overriding any
	// inherited value of the same name.
	Env map[string]string

	// LogPath, when set, receives a line-by-line capture of the child's
	// stdout and stderr.
	LogPath string
}

// Result describes a finished run.
type Result struct {
	RunID    string
	ExitCode int
	Duration time.Duration
	LogPath  string
}

// Execute launches the run's command through the shell and blocks until the
// child exits or ctx is cancelled. A non-zero exit yields a *ProgramError
// together with a populated Result; failures to launch at all yield only an
// error.
func (r *Run) Execute(ctx context.Context, opts Options) (*Result, error) {
	if r.State() != StatePending {
		return nil, fmt.Errorf("run %s already started (state %s)", r.id, r.State())
	}

	r.updateState(StateStarting, nil)
	logging.Info("Execute", "Starting run %s", r.id)
	logging.Debug("Execute", "Command: %s", r.command)

	shell := opts.Shell
	if shell == "" {
		shell = defaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", r.command)
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(opts)

	sink, err := openSink(opts.LogPath)
	if err != nil {
		r.updateState(StateFailed, err)
		return nil, err
	}
	defer sink.close()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.updateState(StateFailed, err)
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		r.updateState(StateFailed, err)
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.updateState(StateFailed, err)
		return nil, fmt.Errorf("failed to start external program: %w", err)
	}
	r.markStarted(start)
	r.updateState(StateRunning, nil)

	var pumps errgroup.Group
	pumps.Go(func() error { return pumpLines(stdout, "stdout", sink) })
	pumps.Go(func() error { return pumpLines(stderr, "stderr", sink) })

	// Drain both pipes before Wait so no output is lost.
	if err := pumps.Wait(); err != nil {
		logging.Warn("Execute", "Output capture for run %s ended early: %v", r.id, err)
	}
	waitErr := cmd.Wait()
	finished := time.Now()
	r.markFinished(finished)

	result := &Result{
		RunID:    r.id,
		ExitCode: exitCode(waitErr),
		Duration: finished.Sub(start),
		LogPath:  opts.LogPath,
	}

	if waitErr == nil {
		r.updateState(StateSucceeded, nil)
		logging.Info("Execute", "Run %s succeeded after %s", r.id, result.Duration.Round(time.Millisecond))
		return result, nil
	}

	if ctx.Err() != nil {
		cancelErr := fmt.Errorf("run cancelled: %w", ctx.Err())
		r.updateState(StateFailed, cancelErr)
		logging.Warn("Execute", "Run %s cancelled after %s", r.id, result.Duration.Round(time.Millisecond))
		return result, cancelErr
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		progErr := &ProgramError{ExitCode: result.ExitCode}
		r.updateState(StateFailed, progErr)
		logging.Error("Execute", progErr, "Run %s failed", r.id)
		return result, progErr
	}

	r.updateState(StateFailed, waitErr)
	return result, fmt.Errorf("external program did not finish cleanly: %w", waitErr)
}

func exitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// buildEnv assembles the child environment from the inherited one, the
// optional BinDir PATH prepend, and per-run overrides.
func buildEnv(opts Options) []string {
	env := os.Environ()
	if opts.BinDir != "" {
		env = prependPath(env, opts.BinDir)
	}
	for k, v := range opts.Env {
		env = setEnv(env, k, v)
	}
	return env
}

func prependPath(env []string, dir string) []string {
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + dir + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
			return env
		}
	}
	return append(env, "PATH="+dir)
}

func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// lineSink serializes capture writes from the stdout and stderr pumps.
type lineSink struct {
	mu   sync.Mutex
	file *os.File
}

// openSink opens the capture log for appending. An empty path yields a sink
// that only forwards to the logging subsystem.
func openSink(path string) (*lineSink, error) {
	if path == "" {
		return &lineSink{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create capture log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture log %s: %w", path, err)
	}
	return &lineSink{file: f}, nil
}

func (s *lineSink) writeLine(line string) {
	if s.file == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.file, line)
}

func (s *lineSink) close() {
	if s.file == nil {
		return
	}
	if err := s.file.Close(); err != nil {
		logging.Warn("Execute", "Failed to close capture log: %v", err)
	}
}

// pumpLines copies one output stream line by line into the sink and the
// logging subsystem until the stream closes.
func pumpLines(stream io.Reader, name string, sink *lineSink) error {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := scanner.Text()
		sink.writeLine(line)
		logging.Debug("Execute", "[%s] %s", name, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s capture: %w", name, err)
	}
	return nil
}
