package configure

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simbadrun/internal/config"
	"simbadrun/internal/mode"
	"simbadrun/internal/synth"
	"simbadrun/internal/task"
)

// newTestEditor returns an editor over a fresh lattice task, backed by a task
// store in a temp directory, together with the buffer commands print to.
func newTestEditor(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	store := config.NewTaskStoreWithPath(t.TempDir())
	return New(task.New("toxd", mode.Lattice), store, &out), &out
}

// writeReflectionFile assembles a minimal MTZ file so the detect and labels
// commands have a real header to read. Records are raw header lines; the END
// record is appended automatically.
func writeReflectionFile(t *testing.T, dir string, records ...string) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("MTZ ")
	buf.Write(make([]byte, 4)) // header offset, patched below
	buf.Write([]byte{0x44, 0x41, 0x00, 0x00})
	buf.Write(make([]byte, 80-buf.Len()))

	headerWord := uint32(buf.Len()/4 + 1)
	for _, record := range append(records, "END") {
		buf.WriteString(fmt.Sprintf("%-80s", record))
	}

	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:8], headerWord)

	path := filepath.Join(dir, "data.mtz")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input string
		verb  string
		rest  string
	}{
		{"help", "help", ""},
		{"SET HKLIN /data/toxd.mtz", "set", "HKLIN /data/toxd.mtz"},
		{"extend -organism   human ", "extend", "-organism   human"},
		{"show", "show", ""},
	}

	for _, tt := range tests {
		verb, rest := splitCommand(tt.input)
		assert.Equal(t, tt.verb, verb, "verb of %q", tt.input)
		assert.Equal(t, tt.rest, rest, "rest of %q", tt.input)
	}
}

func TestExecuteLine_Set(t *testing.T) {
	r, out := newTestEditor(t)

	require.NoError(t, r.executeLine("set HKLIN /data/toxd/toxd.mtz"))

	value, ok := r.task.Parameters.StringValue(task.KeyHKLIN)
	require.True(t, ok)
	assert.Equal(t, "/data/toxd/toxd.mtz", value)
	assert.Contains(t, out.String(), "HKLIN = /data/toxd/toxd.mtz")
}

func TestExecuteLine_SetKeepsValueVerbatim(t *testing.T) {
	r, _ := newTestEditor(t)

	require.NoError(t, r.executeLine("set RUN_DIR /runs/dir with  spaces"))

	value, ok := r.task.Parameters.StringValue(task.KeyRunDir)
	require.True(t, ok)
	assert.Equal(t, "/runs/dir with  spaces", value)
}

func TestExecuteLine_SetUsage(t *testing.T) {
	r, _ := newTestEditor(t)

	assert.Error(t, r.executeLine("set"))
	assert.Error(t, r.executeLine("set HKLIN"))
}

func TestExecuteLine_Unset(t *testing.T) {
	r, out := newTestEditor(t)
	r.task.Parameters.Set(task.KeyNProc, 4)

	require.NoError(t, r.executeLine("unset NProc"))
	assert.False(t, r.task.Parameters.Has(task.KeyNProc))
	assert.Contains(t, out.String(), "removed NProc")
}

func TestExecuteLine_UnsetAbsentKeyWarns(t *testing.T) {
	r, out := newTestEditor(t)

	require.NoError(t, r.executeLine("unset NProc"))
	assert.Contains(t, out.String(), "was not set")

	assert.Error(t, r.executeLine("unset"))
}

func TestExecuteLine_Mode(t *testing.T) {
	r, out := newTestEditor(t)

	require.NoError(t, r.executeLine("mode contaminant"))

	assert.Equal(t, mode.Contaminant, r.task.Mode)
	assert.Contains(t, out.String(), "Mode set to CONTAM")
}

func TestExecuteLine_ModeWithoutProgramVariantWarns(t *testing.T) {
	r, out := newTestEditor(t)

	require.NoError(t, r.executeLine("mode MORDA"))

	assert.Equal(t, mode.Morda, r.task.Mode)
	assert.Contains(t, out.String(), "no program variant registered")
}

func TestExecuteLine_ModeUnknown(t *testing.T) {
	r, _ := newTestEditor(t)

	err := r.executeLine("mode BOGUS")
	var unknownErr *mode.UnknownModeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, mode.Lattice, r.task.Mode, "mode must stay unchanged on error")

	assert.Error(t, r.executeLine("mode"))
}

func TestExecuteLine_ExtendAndExtensions(t *testing.T) {
	r, out := newTestEditor(t)

	require.NoError(t, r.executeLine("extend -organism   human"))
	require.NoError(t, r.executeLine("extend -max_to_keep 20"))

	fragments := r.task.Extensions.InOrder()
	require.Len(t, fragments, 2)
	assert.Equal(t, "-organism   human", fragments[0], "internal spacing must survive")
	assert.Equal(t, "-max_to_keep 20", fragments[1])

	out.Reset()
	require.NoError(t, r.executeLine("extensions"))
	assert.Contains(t, out.String(), "1. -organism   human")
	assert.Contains(t, out.String(), "2. -max_to_keep 20")
}

func TestExecuteLine_ExtensionsEmpty(t *testing.T) {
	r, out := newTestEditor(t)

	require.NoError(t, r.executeLine("extensions"))
	assert.Contains(t, out.String(), "(none)")
}

func TestExecuteLine_ClearExtensions(t *testing.T) {
	r, _ := newTestEditor(t)
	r.task.Extensions.Append("-organism human")

	require.NoError(t, r.executeLine("clear-extensions"))
	assert.Equal(t, 0, r.task.Extensions.Len())
}

func TestExecuteLine_Synth(t *testing.T) {
	r, out := newTestEditor(t)
	r.task.Parameters.Set(task.KeyHKLIN, "/data/toxd.mtz")
	r.task.Parameters.Set(task.KeyF, "FTOXD3")
	r.task.Parameters.Set(task.KeySIGF, "SIGFTOXD3")
	r.task.Parameters.Set(task.KeyFreeRFlag, "FreeR_flag")
	r.task.Parameters.Set(task.KeyHKLOUT, "/out/simbad.mtz")
	r.task.Parameters.Set(task.KeyXYZOUT, "/out/simbad.pdb")
	r.task.Parameters.Set(task.KeyNProc, 4)
	r.task.Parameters.Set(task.KeyRunDir, "/runs/1")
	r.task.Parameters.Set(task.KeyJobID, 7)
	r.task.Extensions.Append("-organism human")

	require.NoError(t, r.executeLine("synth"))

	want := "simbad-lattice /data/toxd.mtz -F FTOXD3 -SIGF SIGFTOXD3 -FREE FreeR_flag " +
		"-output_mtz /out/simbad.mtz -output_pdb /out/simbad.pdb --display_gui " +
		"-nproc 4 -run_dir /runs/1 -ccp4_jobid 7 -organism human"
	assert.Equal(t, want+"\n", out.String())
}

func TestExecuteLine_SynthMissingParameter(t *testing.T) {
	r, _ := newTestEditor(t)
	r.task.Parameters.Set(task.KeyHKLIN, "/data/toxd.mtz")

	err := r.executeLine("synth")
	var missingErr *synth.MissingParameterError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, task.KeyF, missingErr.Key)
}

func TestExecuteLine_Save(t *testing.T) {
	dir := t.TempDir()
	store := config.NewTaskStoreWithPath(dir)
	var out bytes.Buffer
	tk := task.New("toxd", mode.Lattice)
	tk.Parameters.Set(task.KeyNProc, "4")
	tk.Extensions.Append("-organism human")
	r := New(tk, store, &out)

	require.NoError(t, r.executeLine("save toxd-lattice"))
	assert.Equal(t, "toxd-lattice", tk.Name)
	assert.Contains(t, out.String(), "Saved task")

	path, err := store.Path("toxd-lattice")
	require.NoError(t, err)
	loaded, err := task.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "toxd-lattice", loaded.Name)
	assert.Equal(t, mode.Lattice, loaded.Mode)
	nproc, ok := loaded.Parameters.StringValue(task.KeyNProc)
	require.True(t, ok)
	assert.Equal(t, "4", nproc)
	assert.Equal(t, []string{"-organism human"}, loaded.Extensions.InOrder())
}

func TestExecuteLine_SaveDefaultsToTaskName(t *testing.T) {
	r, _ := newTestEditor(t)

	require.NoError(t, r.executeLine("save"))

	names, err := r.store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"toxd"}, names)
}

func TestExecuteLine_SaveUnnamedTask(t *testing.T) {
	store := config.NewTaskStoreWithPath(t.TempDir())
	var out bytes.Buffer
	r := New(task.New("", mode.Lattice), store, &out)

	err := r.executeLine("save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestExecuteLine_DetectAmplitudes(t *testing.T) {
	r, out := newTestEditor(t)
	path := writeReflectionFile(t, t.TempDir(),
		"COLUMN FTOXD3 F 16.9212 979.0773 1",
		"COLUMN SIGFTOXD3 Q 0.2344 64.2483 1",
	)

	require.NoError(t, r.executeLine("detect "+path))

	value, ok := r.task.Parameters.StringValue(task.KeyUseIntensities)
	require.True(t, ok)
	assert.Equal(t, "false", value)
	assert.Contains(t, out.String(), "amplitudes")
}

func TestExecuteLine_DetectIntensities(t *testing.T) {
	r, _ := newTestEditor(t)
	path := writeReflectionFile(t, t.TempDir(),
		"COLUMN ITOXD3 J 1.0 5000.0 1",
		"COLUMN SIGITOXD3 Q 0.5 120.0 1",
	)

	require.NoError(t, r.executeLine("detect "+path))

	value, ok := r.task.Parameters.StringValue(task.KeyUseIntensities)
	require.True(t, ok)
	assert.Equal(t, "true", value)
}

func TestExecuteLine_DetectUsesHKLIN(t *testing.T) {
	r, _ := newTestEditor(t)
	path := writeReflectionFile(t, t.TempDir(),
		"COLUMN ITOXD3 J 1.0 5000.0 1",
	)
	r.task.Parameters.Set(task.KeyHKLIN, path)

	require.NoError(t, r.executeLine("detect"))

	value, ok := r.task.Parameters.StringValue(task.KeyUseIntensities)
	require.True(t, ok)
	assert.Equal(t, "true", value)
}

func TestExecuteLine_DetectUndeterminedLeavesToggle(t *testing.T) {
	r, out := newTestEditor(t)

	require.NoError(t, r.executeLine("detect "+filepath.Join(t.TempDir(), "missing.mtz")))

	assert.False(t, r.task.Parameters.Has(task.KeyUseIntensities))
	assert.Contains(t, out.String(), "left unchanged")
}

func TestExecuteLine_DetectWithoutPath(t *testing.T) {
	r, _ := newTestEditor(t)

	err := r.executeLine("detect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HKLIN is not set")
}

func TestExecuteLine_Labels(t *testing.T) {
	r, out := newTestEditor(t)
	path := writeReflectionFile(t, t.TempDir(),
		"COLUMN FTOXD3 F 16.9212 979.0773 1",
		"COLUMN SIGFTOXD3 Q 0.2344 64.2483 1",
		"COLUMN FreeR_flag I 0 19 0",
	)

	require.NoError(t, r.executeLine("labels "+path))

	assert.Contains(t, out.String(), "FTOXD3")
	assert.Contains(t, out.String(), "SIGFTOXD3")
	assert.Contains(t, out.String(), "FreeR_flag")
	assert.False(t, r.task.Parameters.Has(task.KeyF), "suggest must not modify the store")
}

func TestExecuteLine_LabelsApply(t *testing.T) {
	r, out := newTestEditor(t)
	path := writeReflectionFile(t, t.TempDir(),
		"COLUMN FTOXD3 F 16.9212 979.0773 1",
		"COLUMN SIGFTOXD3 Q 0.2344 64.2483 1",
		"COLUMN FreeR_flag I 0 19 0",
	)

	require.NoError(t, r.executeLine("labels apply "+path))

	f, _ := r.task.Parameters.StringValue(task.KeyF)
	assert.Equal(t, "FTOXD3", f)
	sigf, _ := r.task.Parameters.StringValue(task.KeySIGF)
	assert.Equal(t, "SIGFTOXD3", sigf)
	free, _ := r.task.Parameters.StringValue(task.KeyFreeRFlag)
	assert.Equal(t, "FreeR_flag", free)
	assert.Contains(t, out.String(), "Applied 3 label(s)")
}

func TestExecuteLine_LabelsFriedelPair(t *testing.T) {
	r, out := newTestEditor(t)
	path := writeReflectionFile(t, t.TempDir(),
		"COLUMN F(+) G 10.0 900.0 1",
		"COLUMN F(-) G 10.0 900.0 1",
		"COLUMN FTOXD3 F 16.9212 979.0773 1",
	)

	require.NoError(t, r.executeLine("labels "+path))

	assert.Contains(t, out.String(), "F(+) / F(-)")
}

func TestExecuteLine_LabelsBadFile(t *testing.T) {
	r, _ := newTestEditor(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a reflection file"), 0644))

	err := r.executeLine("labels " + path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an MTZ file")
}

func TestExecuteLine_Show(t *testing.T) {
	r, out := newTestEditor(t)
	r.task.Parameters.Set(task.KeyHKLIN, "/data/toxd.mtz")
	r.task.Extensions.Append("-organism human")

	require.NoError(t, r.executeLine("show"))

	output := out.String()
	assert.Contains(t, output, "Task: toxd")
	assert.Contains(t, output, "Mode: LATTICE (Lattice parameter search)")
	assert.Contains(t, output, "/data/toxd.mtz")
	assert.Contains(t, output, "Extensions (1):")
}

func TestExecuteLine_ShowEmptyTask(t *testing.T) {
	store := config.NewTaskStoreWithPath(t.TempDir())
	var out bytes.Buffer
	r := New(task.New("", ""), store, &out)

	require.NoError(t, r.executeLine("show"))

	output := out.String()
	assert.Contains(t, output, "Task: (unnamed)")
	assert.Contains(t, output, "Mode: (unset)")
	assert.Contains(t, output, "No parameters set.")
}

func TestExecuteLine_Help(t *testing.T) {
	r, out := newTestEditor(t)

	require.NoError(t, r.executeLine("help"))
	assert.Contains(t, out.String(), "Available commands:")
	assert.Contains(t, out.String(), "clear-extensions")

	out.Reset()
	require.NoError(t, r.executeLine("?"))
	assert.Contains(t, out.String(), "Available commands:")
}

func TestExecuteLine_UnknownCommand(t *testing.T) {
	r, _ := newTestEditor(t)

	err := r.executeLine("frobnicate now")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "frobnicate"`)
}

func TestExecuteLine_ExitAndQuit(t *testing.T) {
	r, _ := newTestEditor(t)

	assert.ErrorIs(t, r.executeLine("exit"), errExit)
	assert.ErrorIs(t, r.executeLine("quit"), errExit)
}
