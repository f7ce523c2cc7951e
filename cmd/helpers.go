package cmd

import (
	"fmt"
	"strconv"

	"simbadrun/internal/config"
	"simbadrun/internal/mtz"
	"simbadrun/internal/task"
	"simbadrun/internal/workdir"
	"simbadrun/pkg/logging"
)

// loadTask resolves the task a command operates on. An explicit file path
// wins; otherwise the name is looked up in the task store under the
// configuration directory.
func loadTask(configPath, name, file string) (*task.Task, error) {
	if file != "" {
		return task.LoadFromFile(file)
	}
	if name != "" {
		store := config.NewTaskStoreWithPath(configPath)
		path, err := store.Path(name)
		if err != nil {
			return nil, err
		}
		return task.LoadFromFile(path)
	}
	return nil, fmt.Errorf("no task given: use --task <name> or --file <path>")
}

// prepareTask fills defaulted and derived parameters so synthesis sees the
// same store the run command executes with: processor count and run directory
// from the configuration, the next free job id, output paths next to the
// predicted work directory, and reflection-derived labels.
func prepareTask(cfg config.Config, t *task.Task) error {
	if !t.Parameters.Has(task.KeyNProc) {
		t.Parameters.Set(task.KeyNProc, cfg.Defaults.NProc)
	}
	if !t.Parameters.Has(task.KeyRunDir) {
		t.Parameters.Set(task.KeyRunDir, cfg.Defaults.RunDir)
	}

	runDir, _ := t.Parameters.StringValue(task.KeyRunDir)
	if !t.Parameters.Has(task.KeyJobID) {
		next, err := workdir.NextJobID(runDir)
		if err != nil {
			return err
		}
		t.Parameters.Set(task.KeyJobID, strconv.Itoa(next))
	}

	jobID, _ := t.Parameters.StringValue(task.KeyJobID)
	if !t.Parameters.Has(task.KeyHKLOUT) {
		t.Parameters.Set(task.KeyHKLOUT, workdir.OutputMTZPath(runDir, jobID))
	}
	if !t.Parameters.Has(task.KeyXYZOUT) {
		t.Parameters.Set(task.KeyXYZOUT, workdir.OutputPDBPath(runDir, jobID))
	}

	deriveFromReflections(t)
	return nil
}

// deriveFromReflections fills reflection-derived parameters the operator left
// unset: the intensity toggle from the preferred interpretation, and column
// labels suggested from the catalogue. An absent or unreadable reflection
// file leaves everything untouched; synthesis reports what is still missing.
func deriveFromReflections(t *task.Task) {
	path, ok := t.Parameters.StringValue(task.KeyHKLIN)
	if !ok || path == "" {
		return
	}

	if !t.Parameters.Has(task.KeyUseIntensities) {
		switch mtz.DetectPreferredInterpretation(path) {
		case mtz.MergedIntensities:
			t.Parameters.Set(task.KeyUseIntensities, true)
		case mtz.Amplitudes:
			t.Parameters.Set(task.KeyUseIntensities, false)
		}
	}

	needF := !t.Parameters.Has(task.KeyF)
	needSigF := !t.Parameters.Has(task.KeySIGF)
	needFree := !t.Parameters.Has(task.KeyFreeRFlag)
	if !needF && !needSigF && !needFree {
		return
	}

	file, err := mtz.Open(path)
	if err != nil {
		logging.Debug("TaskDerive", "No label suggestions from %s: %v", path, err)
		return
	}

	labels := mtz.SuggestLabels(file.Columns())
	if needF && labels.F != "" {
		t.Parameters.Set(task.KeyF, labels.F)
		logging.Info("TaskDerive", "Derived F=%s from %s", labels.F, path)
	}
	if needSigF && labels.SigF != "" {
		t.Parameters.Set(task.KeySIGF, labels.SigF)
		logging.Info("TaskDerive", "Derived SIGF=%s from %s", labels.SigF, path)
	}
	if needFree && labels.Free != "" {
		t.Parameters.Set(task.KeyFreeRFlag, labels.Free)
		logging.Info("TaskDerive", "Derived FreeR_flag=%s from %s", labels.Free, path)
	}
}
