package configure

import (
	"fmt"
	"strings"

	"simbadrun/internal/cli"
	"simbadrun/internal/mode"
	"simbadrun/internal/mtz"
	"simbadrun/internal/synth"
	"simbadrun/internal/task"
)

// executeLine parses and runs one editor command.
func (r *REPL) executeLine(input string) error {
	verb, rest := splitCommand(input)

	switch verb {
	case "help", "?":
		r.cmdHelp()
	case "show":
		r.cmdShow()
	case "set":
		return r.cmdSet(rest)
	case "unset":
		return r.cmdUnset(rest)
	case "mode":
		return r.cmdMode(rest)
	case "extend":
		return r.cmdExtend(rest)
	case "extensions":
		r.cmdExtensions()
	case "clear-extensions":
		r.cmdClearExtensions()
	case "detect":
		return r.cmdDetect(rest)
	case "labels":
		return r.cmdLabels(rest)
	case "synth":
		return r.cmdSynth()
	case "save":
		return r.cmdSave(rest)
	case "exit", "quit":
		return errExit
	default:
		return fmt.Errorf("unknown command %q, type 'help' for available commands", verb)
	}
	return nil
}

// splitCommand separates the verb from the remainder of the line. The
// remainder keeps its internal spacing; parameter values and extension
// fragments are stored verbatim.
func splitCommand(input string) (string, string) {
	parts := strings.SplitN(input, " ", 2)
	verb := strings.ToLower(parts[0])
	rest := ""
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return verb, rest
}

func (r *REPL) cmdHelp() {
	fmt.Fprintln(r.out, "Available commands:")
	fmt.Fprintln(r.out, "  show                     Show task name, mode, parameters and extensions")
	fmt.Fprintln(r.out, "  set <KEY> <VALUE>        Set a parameter (value taken verbatim)")
	fmt.Fprintln(r.out, "  unset <KEY>              Remove a parameter")
	fmt.Fprintln(r.out, "  mode <MODE>              Select the search mode")
	fmt.Fprintln(r.out, "  extend <FRAGMENT>        Append a raw extension fragment")
	fmt.Fprintln(r.out, "  extensions               List extension fragments in order")
	fmt.Fprintln(r.out, "  clear-extensions         Drop all extension fragments")
	fmt.Fprintln(r.out, "  detect [PATH]            Detect the preferred column interpretation")
	fmt.Fprintln(r.out, "  labels [apply] [PATH]    Suggest (and optionally apply) column labels")
	fmt.Fprintln(r.out, "  synth                    Preview the synthesized command line")
	fmt.Fprintln(r.out, "  save [NAME]              Save the task to the task store")
	fmt.Fprintln(r.out, "  exit                     Leave the editor")
}

func (r *REPL) cmdShow() {
	fmt.Fprintf(r.out, "Task: %s\n", displayName(r.task.Name))
	if r.task.Mode != "" {
		fmt.Fprintf(r.out, "Mode: %s (%s)\n", r.task.Mode, r.task.Mode.Label())
	} else {
		fmt.Fprintln(r.out, "Mode: (unset)")
	}

	if r.task.Parameters.Len() == 0 {
		fmt.Fprintln(r.out, "No parameters set.")
	} else {
		cli.RenderParameters(r.out, r.task.Parameters)
	}

	if n := r.task.Extensions.Len(); n > 0 {
		fmt.Fprintf(r.out, "Extensions (%d):\n", n)
		for i, fragment := range r.task.Extensions.InOrder() {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, fragment)
		}
	}
}

func (r *REPL) cmdSet(rest string) error {
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) < 2 || parts[0] == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("usage: set <KEY> <VALUE>")
	}

	key := parts[0]
	value := strings.TrimSpace(parts[1])
	r.task.Parameters.Set(key, value)
	fmt.Fprintln(r.out, cli.FormatSuccess(fmt.Sprintf("%s = %s", key, value)))
	return nil
}

func (r *REPL) cmdUnset(rest string) error {
	if rest == "" {
		return fmt.Errorf("usage: unset <KEY>")
	}

	if !r.task.Parameters.Has(rest) {
		fmt.Fprintln(r.out, cli.FormatWarning(fmt.Sprintf("parameter %q was not set", rest)))
		return nil
	}
	r.task.Parameters.Unset(rest)
	fmt.Fprintln(r.out, cli.FormatSuccess(fmt.Sprintf("removed %s", rest)))
	return nil
}

func (r *REPL) cmdMode(rest string) error {
	if rest == "" {
		return fmt.Errorf("usage: mode <MODE> (one of %v)", mode.Modes())
	}

	m, err := mode.ParseMode(rest)
	if err != nil {
		return err
	}

	r.task.Mode = m
	fmt.Fprintln(r.out, cli.FormatSuccess(fmt.Sprintf("Mode set to %s (%s)", m, m.Label())))
	if !m.Registered() {
		fmt.Fprintln(r.out, cli.FormatWarning(fmt.Sprintf("mode %s has no program variant registered; synthesis will fail", m)))
	}
	return nil
}

func (r *REPL) cmdExtend(rest string) error {
	if rest == "" {
		return fmt.Errorf("usage: extend <FRAGMENT>")
	}

	r.task.Extensions.Append(rest)
	fmt.Fprintln(r.out, cli.FormatSuccess(fmt.Sprintf("Appended extension %d: %s", r.task.Extensions.Len(), rest)))
	return nil
}

func (r *REPL) cmdExtensions() {
	fragments := r.task.Extensions.InOrder()
	if len(fragments) == 0 {
		fmt.Fprintln(r.out, "(none)")
		return
	}
	for i, fragment := range fragments {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, fragment)
	}
}

func (r *REPL) cmdClearExtensions() {
	r.task.ReplaceExtensions(nil)
	fmt.Fprintln(r.out, cli.FormatSuccess("Extensions cleared"))
}

func (r *REPL) cmdDetect(rest string) error {
	path, err := r.reflectionPath(rest)
	if err != nil {
		return err
	}

	interpretation := mtz.DetectPreferredInterpretation(path)
	fmt.Fprintf(r.out, "Preferred interpretation for %s: %s\n", path, interpretation)

	switch interpretation {
	case mtz.MergedIntensities:
		r.task.Parameters.Set(task.KeyUseIntensities, true)
		fmt.Fprintln(r.out, cli.FormatSuccess("USE_INTENSITIES = true"))
	case mtz.Amplitudes:
		r.task.Parameters.Set(task.KeyUseIntensities, false)
		fmt.Fprintln(r.out, cli.FormatSuccess("USE_INTENSITIES = false"))
	default:
		fmt.Fprintln(r.out, cli.FormatWarning("USE_INTENSITIES left unchanged"))
	}
	return nil
}

func (r *REPL) cmdLabels(rest string) error {
	apply := false
	if rest == "apply" || strings.HasPrefix(rest, "apply ") {
		apply = true
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "apply"))
	}

	path, err := r.reflectionPath(rest)
	if err != nil {
		return err
	}

	file, err := mtz.Open(path)
	if err != nil {
		return err
	}

	labels := mtz.SuggestLabels(file.Columns())
	fmt.Fprintf(r.out, "Suggested labels for %s:\n", path)
	fmt.Fprintf(r.out, "  F:          %s\n", labelOrDash(labels.F))
	fmt.Fprintf(r.out, "  SIGF:       %s\n", labelOrDash(labels.SigF))
	fmt.Fprintf(r.out, "  FreeR_flag: %s\n", labelOrDash(labels.Free))
	if labels.FPlus != "" || labels.FMinus != "" {
		fmt.Fprintf(r.out, "  F(+)/F(-):  %s / %s\n", labelOrDash(labels.FPlus), labelOrDash(labels.FMinus))
	}

	if !apply {
		return nil
	}

	applied := 0
	if labels.F != "" {
		r.task.Parameters.Set(task.KeyF, labels.F)
		applied++
	}
	if labels.SigF != "" {
		r.task.Parameters.Set(task.KeySIGF, labels.SigF)
		applied++
	}
	if labels.Free != "" {
		r.task.Parameters.Set(task.KeyFreeRFlag, labels.Free)
		applied++
	}
	fmt.Fprintln(r.out, cli.FormatSuccess(fmt.Sprintf("Applied %d label(s)", applied)))
	return nil
}

func (r *REPL) cmdSynth() error {
	command, err := synth.Synthesize(r.task.Mode, r.task.Parameters, r.task.Extensions)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, command)
	return nil
}

func (r *REPL) cmdSave(rest string) error {
	name := rest
	if name == "" {
		name = r.task.Name
	}
	if name == "" {
		return fmt.Errorf("task has no name; use save <NAME>")
	}

	r.task.Name = name
	data, err := task.Marshal(r.task)
	if err != nil {
		return err
	}
	if err := r.store.Save(name, data); err != nil {
		return err
	}

	path, err := r.store.Path(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, cli.FormatSuccess(fmt.Sprintf("Saved task %q to %s", name, path)))
	return nil
}

func labelOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// reflectionPath resolves the MTZ path for detect/labels: an explicit path
// wins, otherwise the task's HKLIN parameter.
func (r *REPL) reflectionPath(rest string) (string, error) {
	if rest != "" {
		return rest, nil
	}
	if path, ok := r.task.Parameters.StringValue(task.KeyHKLIN); ok && path != "" {
		return path, nil
	}
	return "", fmt.Errorf("no path given and HKLIN is not set")
}
