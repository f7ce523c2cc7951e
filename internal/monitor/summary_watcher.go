package monitor

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"simbadrun/internal/results"
	"simbadrun/pkg/logging"
)

// summaryFileNames is the set of summary base names worth reporting.
var summaryFileNames = map[string]bool{
	filepath.Base(results.LatticeSummary):     true,
	filepath.Base(results.ContaminantSummary): true,
}

// SummaryEvent reports that a summary file appeared or changed.
type SummaryEvent struct {
	Path      string
	Timestamp time.Time
}

// SummaryWatcher watches a work directory for summary CSV changes.
//
// The work directory usually does not exist when the watcher starts; the
// external program creates it shortly after launch. The watcher therefore
// watches the run directory and extends its watch set as the work directory
// and its search subdirectories appear.
type SummaryWatcher struct {
	mu sync.Mutex

	// workDir is the predicted work directory of the run
	workDir string

	// watcher is the fsnotify watcher instance
	watcher *fsnotify.Watcher

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pending tracks pending debounced events by path
	pending map[string]*time.Timer

	// stopCh signals shutdown
	stopCh chan struct{}

	// running indicates if the watcher is active
	running bool
}

// NewSummaryWatcher creates a watcher for the given work directory.
func NewSummaryWatcher(workDir string, debounceInterval time.Duration) *SummaryWatcher {
	if debounceInterval <= 0 {
		debounceInterval = 500 * time.Millisecond
	}

	return &SummaryWatcher{
		workDir:          workDir,
		debounceInterval: debounceInterval,
		pending:          make(map[string]*time.Timer),
		stopCh:           make(chan struct{}),
	}
}

// Start begins watching and delivers events until ctx is cancelled or Stop
// is called. Summary files that already exist when Start runs are reported
// immediately.
func (w *SummaryWatcher) Start(ctx context.Context, events chan<- SummaryEvent) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	w.watcher = watcher
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	if err := w.setupWatches(); err != nil {
		w.Stop()
		return err
	}

	go w.processEvents(ctx, events)

	// Catch summaries written before the watches landed.
	w.scanExisting(events)

	logging.Info("Monitor", "Watching %s for summary files", w.workDir)
	return nil
}

// setupWatches registers the run directory plus whatever part of the work
// directory tree already exists.
func (w *SummaryWatcher) setupWatches() error {
	w.mu.Lock()
	watcher := w.watcher
	w.mu.Unlock()
	if watcher == nil {
		return nil
	}

	runDir := filepath.Dir(w.workDir)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}
	if err := watcher.Add(runDir); err != nil {
		return err
	}
	logging.Debug("Monitor", "Watching directory: %s", runDir)

	w.watchIfDir(w.workDir)
	entries, err := os.ReadDir(w.workDir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() {
			w.watchIfDir(filepath.Join(w.workDir, entry.Name()))
		}
	}
	return nil
}

// watchIfDir adds a watch when path exists and is a directory.
func (w *SummaryWatcher) watchIfDir(path string) {
	w.mu.Lock()
	watcher := w.watcher
	w.mu.Unlock()
	if watcher == nil {
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := watcher.Add(path); err != nil {
		logging.Warn("Monitor", "Failed to watch %s: %v", path, err)
		return
	}
	logging.Debug("Monitor", "Watching directory: %s", path)
}

// scanExisting emits events for summary files already on disk.
func (w *SummaryWatcher) scanExisting(events chan<- SummaryEvent) {
	for _, rel := range []string{results.LatticeSummary, results.ContaminantSummary} {
		path := filepath.Join(w.workDir, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err == nil {
			w.debounceEvent(path, events)
		}
	}
}

// processEvents handles filesystem events until shutdown.
func (w *SummaryWatcher) processEvents(ctx context.Context, events chan<- SummaryEvent) {
	w.mu.Lock()
	watcher := w.watcher
	stopCh := w.stopCh
	w.mu.Unlock()
	if watcher == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			w.cleanupPending()
			return

		case <-stopCh:
			w.cleanupPending()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event, events)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Monitor", err, "Filesystem watcher error")
		}
	}
}

// handleFsEvent processes a single filesystem event.
func (w *SummaryWatcher) handleFsEvent(event fsnotify.Event, events chan<- SummaryEvent) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		// Newly created directories under the run or work directory widen
		// the watch set; a summary may already be inside by the time the
		// watch lands.
		if w.isWatchableDir(event.Name) {
			w.watchIfDir(event.Name)
			if event.Name == w.workDir {
				entries, err := os.ReadDir(w.workDir)
				if err == nil {
					for _, entry := range entries {
						if entry.IsDir() {
							w.watchIfDir(filepath.Join(w.workDir, entry.Name()))
						}
					}
				}
			}
			w.scanExisting(events)
			return
		}
	}

	if !summaryFileNames[filepath.Base(event.Name)] {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	w.debounceEvent(event.Name, events)
}

// isWatchableDir reports whether path is the work directory or one of its
// immediate subdirectories.
func (w *SummaryWatcher) isWatchableDir(path string) bool {
	if path == w.workDir {
		return true
	}
	return filepath.Dir(path) == w.workDir
}

// debounceEvent coalesces rapid successive changes to the same file.
func (w *SummaryWatcher) debounceEvent(path string, events chan<- SummaryEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}

	w.pending[path] = time.AfterFunc(w.debounceInterval, func() {
		w.mu.Lock()
		_, ok := w.pending[path]
		if ok {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		if !ok {
			return
		}
		select {
		case events <- SummaryEvent{Path: path, Timestamp: time.Now()}:
			logging.Debug("Monitor", "Summary changed: %s", path)
		default:
			logging.Warn("Monitor", "Summary event channel full, dropping event for %s", path)
		}
	})
}

// cleanupPending cancels all pending debounce timers.
func (w *SummaryWatcher) cleanupPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = make(map[string]*time.Timer)
}

// Stop gracefully stops the watcher.
func (w *SummaryWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			logging.Error("Monitor", err, "Error closing filesystem watcher")
		}
		w.watcher = nil
	}

	logging.Info("Monitor", "Stopped summary watcher for %s", w.workDir)
	return nil
}
