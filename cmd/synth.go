package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"simbadrun/internal/cli"
	"simbadrun/internal/config"
	"simbadrun/internal/mode"
	"simbadrun/internal/synth"
	"simbadrun/internal/task"
	"simbadrun/internal/workdir"
)

var (
	synthTaskName     string
	synthTaskFile     string
	synthOutputFormat string
)

// synthCmd assembles and prints the command line for a task without running
// anything.
var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize and print the exact command line for a task",
	Long: `Assembles the command line the run command would execute for a task and
prints it, without launching anything. The default output is the bare command
string; json and yaml output wrap it together with the resolved program and
the predicted work directory.

Defaults and reflection-derived parameters are applied exactly as run does,
so the printed string is the one a subsequent run executes.`,
	Args: cobra.NoArgs,
	RunE: runSynth,
}

// synthResult is the structured form of the synthesized invocation.
type synthResult struct {
	Command string `json:"command" yaml:"command"`
	Program string `json:"program" yaml:"program"`
	Mode    string `json:"mode" yaml:"mode"`
	WorkDir string `json:"workDir" yaml:"workDir"`
}

func runSynth(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(synthOutputFormat); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(rootConfigPath)
	if err != nil {
		return err
	}

	t, err := loadTask(rootConfigPath, synthTaskName, synthTaskFile)
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

	if cli.OutputFormat(synthOutputFormat) == cli.OutputFormatTable {
		fmt.Fprintln(cmd.OutOrStdout(), command)
		return nil
	}

	program, err := mode.ResolveProgram(t.Mode)
	if err != nil {
		return err
	}
	runDir, _ := t.Parameters.StringValue(task.KeyRunDir)
	jobID, _ := t.Parameters.StringValue(task.KeyJobID)
	return cli.RenderStructured(cmd.OutOrStdout(), cli.OutputFormat(synthOutputFormat), synthResult{
		Command: command,
		Program: program,
		Mode:    t.Mode.String(),
		WorkDir: workdir.Expected(runDir, jobID),
	})
}

func init() {
	rootCmd.AddCommand(synthCmd)

	synthCmd.Flags().StringVar(&synthTaskName, "task", "", "Named task from the task store")
	synthCmd.Flags().StringVarP(&synthTaskFile, "file", "f", "", "Task definition file (YAML)")
	synthCmd.Flags().StringVarP(&synthOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	synthCmd.MarkFlagsMutuallyExclusive("task", "file")
}
