package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"simbadrun/internal/config"
	"simbadrun/internal/configure"
	"simbadrun/internal/task"
)

var configureTaskFile string

// configureCmd opens the interactive task editor.
var configureCmd = &cobra.Command{
	Use:   "configure [NAME]",
	Short: "Interactively edit a task",
	Long: `Opens an interactive editor for a task. With a NAME argument the task is
loaded from the task store when it exists, or created empty under that name.
With --file the task is loaded from a YAML file instead.

The editor supports tab completion and keeps a command history. Type 'help'
inside the editor for the command list; 'save' writes the task back to the
task store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	store := config.NewTaskStoreWithPath(rootConfigPath)

	var t *task.Task
	switch {
	case configureTaskFile != "":
		loaded, err := task.LoadFromFile(configureTaskFile)
		if err != nil {
			return err
		}
		t = loaded
	case len(args) == 1:
		path, err := store.Path(args[0])
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(path); statErr == nil {
			loaded, err := task.LoadFromFile(path)
			if err != nil {
				return err
			}
			t = loaded
		} else {
			t = task.New(args[0], "")
		}
	default:
		t = task.New("", "")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return configure.New(t, store, cmd.OutOrStdout()).Run(ctx)
}

func init() {
	rootCmd.AddCommand(configureCmd)

	configureCmd.Flags().StringVarP(&configureTaskFile, "file", "f", "", "Task definition file (YAML)")
}
