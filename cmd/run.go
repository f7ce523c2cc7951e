package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"simbadrun/internal/cli"
	"simbadrun/internal/config"
	"simbadrun/internal/execute"
	"simbadrun/internal/mode"
	"simbadrun/internal/monitor"
	"simbadrun/internal/report"
	"simbadrun/internal/results"
	"simbadrun/internal/synth"
	"simbadrun/internal/task"
	"simbadrun/internal/workdir"
	"simbadrun/pkg/logging"
)

var (
	runTaskName string
	runTaskFile string
	runDryRun   bool
	runTail     bool
	runQuiet    bool
)

// runCmd drives the full pipeline: load and complete the task, synthesize the
// command line, execute it under monitoring, collect results, and report.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Synthesize and execute a SIMBAD search",
	Long: `Runs a configured task end to end. The task's parameter store is completed
with configuration defaults (processor count, run directory), the next free
job id, derived output paths, and column labels suggested from the reflection
file. The resulting command line is executed through the shell with the
configured program directory prepended to PATH.

While the program runs, the predicted work directory is watched for summary
updates; --tail additionally follows the program's own log. Afterwards the
mode's summary CSV is ranked and a run report is printed, including the
refinement output of the best candidate when the program produced one.

--dry-run stops after synthesis and prints the command line instead of
executing it.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(rootConfigPath)
	if err != nil {
		return err
	}

	t, err := loadTask(rootConfigPath, runTaskName, runTaskFile)
	if err != nil {
		return err
	}
	if err := prepareTask(cfg, t); err != nil {
		return err
	}

	command, err := synth.Synthesize(t.Mode, t.Parameters, t.Extensions)
	if err != nil {
		return err
	}

	if runDryRun {
		fmt.Fprintln(cmd.OutOrStdout(), command)
		return nil
	}

	program, err := mode.ResolveProgram(t.Mode)
	if err != nil {
		return err
	}

	runDir, _ := t.Parameters.StringValue(task.KeyRunDir)
	jobID, _ := t.Parameters.StringValue(task.KeyJobID)
	if err := workdir.EnsureRunDir(runDir); err != nil {
		return err
	}
	workDir := workdir.Expected(runDir, jobID)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Handle interrupts gracefully: cancellation kills the child process.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logging.Info("Run", "Received interrupt signal, stopping run")
			cancel()
		case <-ctx.Done():
		}
	}()

	if runQuiet {
		// Quiet mode keeps plain CLI logging but only surfaces problems.
		level := logging.LevelWarn
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
	} else {
		stopRenderer := startLogRenderer(cmd)
		defer stopRenderer()
	}

	events := make(chan monitor.SummaryEvent, 8)
	watcher := monitor.NewSummaryWatcher(workDir, time.Duration(cfg.Monitor.DebounceMs)*time.Millisecond)
	if err := watcher.Start(ctx, events); err != nil {
		return err
	}
	defer watcher.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				logging.Info("RunMonitor", "Summary updated: %s", event.Path)
			}
		}
	}()

	var tailer *monitor.LogTailer
	if runTail {
		lines := make(chan string, 64)
		tailer = monitor.NewLogTailer(workdir.LogPath(workDir), cfg.Monitor.TailRatePerSecond)
		if err := tailer.Start(ctx, lines); err != nil {
			return err
		}
		defer tailer.Stop()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case line := <-lines:
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
			}
		}()
	}

	run := execute.NewRun(command)
	run.SetStateChangeCallback(func(runID string, oldState, newState execute.RunState, err error) {
		if err != nil {
			logging.Error("Run", err, "Run %s: %s -> %s", runID, oldState, newState)
			return
		}
		logging.Info("Run", "Run %s: %s -> %s", runID, oldState, newState)
	})

	spin := cli.NewProgressSpinner(fmt.Sprintf("running %s (job %s)", program, jobID))
	if runQuiet {
		spin.Start()
	}

	result, runErr := run.Execute(ctx, execute.Options{
		Shell:   cfg.Programs.Shell,
		BinDir:  cfg.Programs.BinDir,
		Dir:     runDir,
		LogPath: workdir.CaptureLogPath(runDir, jobID),
	})
	if runQuiet {
		spin.Stop()
	}

	// Stop the monitors before rendering so their output does not interleave
	// with the report.
	watcher.Stop()
	if tailer != nil {
		tailer.Stop()
	}

	if result == nil {
		// The program never launched; there is nothing to report on.
		return runErr
	}

	data := report.Data{
		TaskName:  t.Name,
		Mode:      t.Mode,
		ModeLabel: t.Mode.Label(),
		Program:   program,
		Command:   command,
		RunID:     result.RunID,
		State:     string(run.State()),
		ExitCode:  result.ExitCode,
		Duration:  result.Duration.Round(time.Millisecond),
		WorkDir:   workDir,
		LogPath:   result.LogPath,
	}
	collectResults(cfg, t, workDir, &data)

	if err := report.Render(cmd.OutOrStdout(), data); err != nil {
		return err
	}

	// An external program failure still produced the report above; the exit
	// code tells scripts what happened.
	return runErr
}

// collectResults fills the report's candidate section from the mode's summary
// CSV when the run produced one, and copies the best candidate's refinement
// output to the task's output paths. Absent or unreadable results are logged,
// never fatal: the run's own outcome has already been decided.
func collectResults(cfg config.Config, t *task.Task, workDir string, data *report.Data) {
	summaryPath, ok := results.LocateSummary(workDir, t.Mode)
	if !ok {
		logging.Info("Run", "No summary file under %s", workDir)
		return
	}

	summary, err := results.ParseSummary(summaryPath)
	if err != nil {
		logging.Warn("Run", "Could not parse summary %s: %v", summaryPath, err)
		return
	}

	ranked, err := results.RankedByScore(summary, cfg.Results.ScoreColumn, cfg.Results.Ascending)
	if err != nil {
		logging.Warn("Run", "Could not rank %s: %v", summaryPath, err)
		return
	}

	data.ScoreColumn = cfg.Results.ScoreColumn
	data.Candidates = report.Candidates(ranked, cfg.Results.ScoreColumn, cfg.Results.Display)
	data.Solved = results.AnySolved(summary)

	best, err := results.BestByScore(summary, cfg.Results.ScoreColumn, cfg.Results.Ascending)
	if err != nil {
		return
	}

	outputPDB, _ := t.Parameters.StringValue(task.KeyXYZOUT)
	outputMTZ, _ := t.Parameters.StringValue(task.KeyHKLOUT)
	copied, err := results.CopyOutputFiles(workDir, best.PdbCode, outputPDB, outputMTZ)
	if err != nil {
		logging.Warn("Run", "Could not copy refinement output for %s: %v", best.PdbCode, err)
		return
	}
	if copied {
		data.OutputsCopied = true
		data.OutputPDB = outputPDB
		data.OutputMTZ = outputMTZ
	}
}

// startLogRenderer switches logging to stream mode and prints entries to the
// command's stderr until the stream closes. The returned stop function closes
// the stream and waits for the printer to drain.
func startLogRenderer(cmd *cobra.Command) func() {
	level := logging.LevelInfo
	if rootDebug {
		level = logging.LevelDebug
	}

	entries := logging.InitForStream(level)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			if entry.Level < level {
				continue
			}
			if entry.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %-5s [%s] %s: %v\n",
					entry.Timestamp.Format("15:04:05"), entry.Level, entry.Subsystem, entry.Message, entry.Err)
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %-5s [%s] %s\n",
				entry.Timestamp.Format("15:04:05"), entry.Level, entry.Subsystem, entry.Message)
		}
	}()

	return func() {
		logging.CloseStreamChannel()
		<-done
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runTaskName, "task", "", "Named task from the task store")
	runCmd.Flags().StringVarP(&runTaskFile, "file", "f", "", "Task definition file (YAML)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the synthesized command line instead of executing it")
	runCmd.Flags().BoolVar(&runTail, "tail", false, "Follow the program's own log file while it runs")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Suppress progress output; show a spinner and the final report only")
	runCmd.MarkFlagsMutuallyExclusive("task", "file")
	runCmd.MarkFlagsMutuallyExclusive("tail", "quiet")
}
