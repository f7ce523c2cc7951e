package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventWait = 10 * time.Second

func receiveEvent(t *testing.T, events <-chan SummaryEvent) SummaryEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(eventWait):
		t.Fatal("timed out waiting for summary event")
		return SummaryEvent{}
	}
}

func TestSummaryWatcher_ExistingFileAtStart(t *testing.T) {
	runDir := t.TempDir()
	workDir := filepath.Join(runDir, "SIMBAD_0")
	summary := filepath.Join(workDir, "latt", "lattice_mr.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(summary), 0755))
	require.NoError(t, os.WriteFile(summary, []byte("pdb_code,final_r_free\n1DTX,0.29\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewSummaryWatcher(workDir, 50*time.Millisecond)
	events := make(chan SummaryEvent, 16)
	require.NoError(t, w.Start(ctx, events))
	defer w.Stop()

	ev := receiveEvent(t, events)
	assert.Equal(t, summary, ev.Path)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestSummaryWatcher_WorkDirAppearsLater(t *testing.T) {
	runDir := t.TempDir()
	workDir := filepath.Join(runDir, "SIMBAD_1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewSummaryWatcher(workDir, 50*time.Millisecond)
	events := make(chan SummaryEvent, 16)
	require.NoError(t, w.Start(ctx, events))
	defer w.Stop()

	// The external program creates the tree after launch.
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "latt"), 0755))
	time.Sleep(100 * time.Millisecond)
	summary := filepath.Join(workDir, "latt", "lattice_mr.csv")
	require.NoError(t, os.WriteFile(summary, []byte("pdb_code,final_r_free\n1DTX,0.29\n"), 0644))

	ev := receiveEvent(t, events)
	assert.Equal(t, summary, ev.Path)
}

func TestSummaryWatcher_ContaminantSummary(t *testing.T) {
	runDir := t.TempDir()
	workDir := filepath.Join(runDir, "SIMBAD_2")
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "cont"), 0755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewSummaryWatcher(workDir, 50*time.Millisecond)
	events := make(chan SummaryEvent, 16)
	require.NoError(t, w.Start(ctx, events))
	defer w.Stop()

	summary := filepath.Join(workDir, "cont", "contaminant_mr.csv")
	require.NoError(t, os.WriteFile(summary, []byte("pdb_code,final_r_free\n1AB1,0.31\n"), 0644))

	ev := receiveEvent(t, events)
	assert.Equal(t, summary, ev.Path)
}

func TestSummaryWatcher_IgnoresOtherFiles(t *testing.T) {
	runDir := t.TempDir()
	workDir := filepath.Join(runDir, "SIMBAD_3")
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "latt"), 0755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewSummaryWatcher(workDir, 50*time.Millisecond)
	events := make(chan SummaryEvent, 16)
	require.NoError(t, w.Start(ctx, events))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(workDir, "latt", "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "latt", "other.csv"), []byte("a,b\n"), 0644))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for %s", ev.Path)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestSummaryWatcher_DebouncesRapidWrites(t *testing.T) {
	runDir := t.TempDir()
	workDir := filepath.Join(runDir, "SIMBAD_4")
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "latt"), 0755))
	summary := filepath.Join(workDir, "latt", "lattice_mr.csv")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewSummaryWatcher(workDir, 300*time.Millisecond)
	events := make(chan SummaryEvent, 64)
	require.NoError(t, w.Start(ctx, events))
	defer w.Stop()

	f, err := os.OpenFile(summary, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := f.WriteString("1DTX,0.29\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	receiveEvent(t, events)

	// Let any stragglers fire, then check the burst collapsed.
	time.Sleep(time.Second)
	assert.LessOrEqual(t, len(events), 1)
}

func TestSummaryWatcher_StartTwice(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "SIMBAD_5")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewSummaryWatcher(workDir, 50*time.Millisecond)
	events := make(chan SummaryEvent, 16)
	require.NoError(t, w.Start(ctx, events))
	defer w.Stop()

	assert.NoError(t, w.Start(ctx, events))
}

func TestSummaryWatcher_StopIdempotent(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "SIMBAD_6")

	w := NewSummaryWatcher(workDir, 50*time.Millisecond)
	events := make(chan SummaryEvent, 16)
	require.NoError(t, w.Start(context.Background(), events))

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestNewSummaryWatcher_DefaultDebounce(t *testing.T) {
	w := NewSummaryWatcher("/tmp/SIMBAD_0", 0)
	assert.Equal(t, 500*time.Millisecond, w.debounceInterval)
}
