package configure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"simbadrun/internal/cli"
	"simbadrun/internal/config"
	"simbadrun/internal/mode"
	"simbadrun/internal/task"
	"simbadrun/pkg/logging"
)

const prompt = "simbad> "

// errExit signals a clean exit from the command loop.
var errExit = errors.New("exit")

// REPL is the interactive editor for a single task.
type REPL struct {
	task  *task.Task
	store *config.TaskStore
	out   io.Writer
}

// New creates an editor over t that saves through store and prints to out.
func New(t *task.Task, store *config.TaskStore, out io.Writer) *REPL {
	return &REPL{
		task:  t,
		store: store,
		out:   out,
	}
}

// Run reads and executes commands until exit, EOF, or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	rlConfig := &readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".simbadrun_configure_history"),
		AutoComplete:    r.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(r.out, "Editing task %s. Type 'help' for available commands. Use TAB for completion.\n\n", displayName(r.task.Name))

	for {
		select {
		case <-ctx.Done():
			logging.Info("Configure", "Task editor shutting down")
			return nil
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.executeLine(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(r.out, "Goodbye!")
				return nil
			}
			fmt.Fprintln(r.out, cli.FormatError(err))
		}

		fmt.Fprintln(r.out)
	}
}

// createCompleter creates the tab completion configuration.
func (r *REPL) createCompleter() *readline.PrefixCompleter {
	keys := task.FixedKeys()
	keyCompleters := make([]readline.PrefixCompleterInterface, 0, len(keys))
	for _, key := range keys {
		keyCompleters = append(keyCompleters, readline.PcItem(key))
	}

	modes := mode.Modes()
	modeCompleters := make([]readline.PrefixCompleterInterface, 0, len(modes))
	for _, m := range modes {
		modeCompleters = append(modeCompleters, readline.PcItem(m.String()))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("show"),
		readline.PcItem("set", keyCompleters...),
		readline.PcItem("unset", keyCompleters...),
		readline.PcItem("mode", modeCompleters...),
		readline.PcItem("extend"),
		readline.PcItem("extensions"),
		readline.PcItem("clear-extensions"),
		readline.PcItem("detect"),
		readline.PcItem("labels", readline.PcItem("apply")),
		readline.PcItem("synth"),
		readline.PcItem("save"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}

// filterInput filters input characters for readline
func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
