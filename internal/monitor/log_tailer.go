package monitor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"simbadrun/pkg/logging"
)

// defaultTailRate bounds emitted lines per second when the caller passes no
// rate.
const defaultTailRate = 20

// appearPollInterval is how often the tailer checks for a log file that does
// not exist yet.
const appearPollInterval = 200 * time.Millisecond

// LogTailer follows a log file line by line, starting before the file exists.
//
// Lines are delivered in order; the limiter slows delivery down rather than
// dropping lines, so a fast writer backs the tailer up instead of flooding
// the consumer.
type LogTailer struct {
	mu      sync.Mutex
	path    string
	limiter *rate.Limiter
	stopCh  chan struct{}
	running bool

	// partial buffers an unterminated trailing line between drains
	partial strings.Builder
}

// NewLogTailer creates a tailer for path emitting at most linesPerSecond.
func NewLogTailer(path string, linesPerSecond float64) *LogTailer {
	if linesPerSecond <= 0 {
		linesPerSecond = defaultTailRate
	}
	burst := int(linesPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &LogTailer{
		path:    path,
		limiter: rate.NewLimiter(rate.Limit(linesPerSecond), burst),
		stopCh:  make(chan struct{}),
	}
}

// Start begins following the file in the background. Content already in the
// file is delivered first, then appended lines as they arrive.
func (t *LogTailer) Start(ctx context.Context, lines chan<- string) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = true
	t.stopCh = make(chan struct{})
	stopCh := t.stopCh
	t.mu.Unlock()

	go t.follow(ctx, stopCh, lines)
	return nil
}

// Stop ends the tail. Safe to call more than once.
func (t *LogTailer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	close(t.stopCh)
}

func (t *LogTailer) follow(ctx context.Context, stopCh chan struct{}, lines chan<- string) {
	file, err := t.waitForFile(ctx, stopCh)
	if err != nil {
		return
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("Monitor", err, "Failed to create log watcher")
		return
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		logging.Error("Monitor", err, "Failed to watch log directory")
		return
	}

	logging.Debug("Monitor", "Tailing %s", t.path)

	if err := t.drain(ctx, stopCh, reader, lines); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != t.path || event.Op&fsnotify.Write == 0 {
				continue
			}
			if err := t.drain(ctx, stopCh, reader, lines); err != nil {
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Monitor", err, "Log watcher error")
		}
	}
}

// waitForFile polls until the log file exists, then opens it.
func (t *LogTailer) waitForFile(ctx context.Context, stopCh chan struct{}) (*os.File, error) {
	ticker := time.NewTicker(appearPollInterval)
	defer ticker.Stop()

	for {
		file, err := os.Open(t.path)
		if err == nil {
			return file, nil
		}
		if !os.IsNotExist(err) {
			logging.Error("Monitor", err, "Failed to open log file %s", t.path)
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-stopCh:
			return nil, errors.New("tailer stopped")
		case <-ticker.C:
		}
	}
}

// drain reads everything appended since the last drain and emits each
// complete line. An unterminated trailing line is kept until its newline
// arrives.
func (t *LogTailer) drain(ctx context.Context, stopCh chan struct{}, reader *bufio.Reader, lines chan<- string) error {
	for {
		chunk, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				t.partial.WriteString(chunk)
				return nil
			}
			logging.Error("Monitor", err, "Error reading log file %s", t.path)
			return err
		}

		line := strings.TrimRight(chunk, "\n")
		if t.partial.Len() > 0 {
			line = t.partial.String() + line
			t.partial.Reset()
		}

		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return errors.New("tailer stopped")
		}
	}
}
