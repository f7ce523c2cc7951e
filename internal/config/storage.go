package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"simbadrun/pkg/logging"
)

// tasksDir is the subdirectory of the configuration directory that holds
// named task files.
const tasksDir = "tasks"

// TaskStore keeps named task definitions as YAML files under the
// configuration directory, so a task configured once can be rerun by name.
type TaskStore struct {
	mu         sync.RWMutex
	configPath string // optional custom config path; empty means the user default
}

// NewTaskStore creates a TaskStore over the default configuration directory.
func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

// NewTaskStoreWithPath creates a TaskStore over a custom config directory.
func NewTaskStoreWithPath(configPath string) *TaskStore {
	return &TaskStore{configPath: configPath}
}

// Save stores the serialized task under the given name.
func (ts *TaskStore) Save(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("task name cannot be empty")
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	dir, err := ts.tasksPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create tasks directory %s: %w", dir, err)
	}

	filePath := filepath.Join(dir, sanitizeTaskName(name)+".yaml")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write task file %s: %w", filePath, err)
	}

	logging.Info("TaskStore", "Saved task %s to %s", name, filePath)
	return nil
}

// Load retrieves the serialized task stored under the given name.
func (ts *TaskStore) Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("task name cannot be empty")
	}

	ts.mu.RLock()
	defer ts.mu.RUnlock()

	dir, err := ts.tasksPath()
	if err != nil {
		return nil, err
	}

	filePath := filepath.Join(dir, sanitizeTaskName(name)+".yaml")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("task %q not found", name)
		}
		return nil, fmt.Errorf("failed to read task file %s: %w", filePath, err)
	}

	logging.Debug("TaskStore", "Loaded task %s from %s", name, filePath)
	return data, nil
}

// Delete removes the task stored under the given name.
func (ts *TaskStore) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("task name cannot be empty")
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	dir, err := ts.tasksPath()
	if err != nil {
		return err
	}

	filePath := filepath.Join(dir, sanitizeTaskName(name)+".yaml")
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("task %q not found", name)
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete task file %s: %w", filePath, err)
	}

	logging.Info("TaskStore", "Deleted task %s from %s", name, filePath)
	return nil
}

// List returns the names of all stored tasks in sorted order.
func (ts *TaskStore) List() ([]string, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	dir, err := ts.tasksPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	var names []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		files, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to glob task files: %w", err)
		}
		for _, filePath := range files {
			basename := filepath.Base(filePath)
			names = append(names, strings.TrimSuffix(basename, filepath.Ext(basename)))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Path returns the file path a task name resolves to.
func (ts *TaskStore) Path(name string) (string, error) {
	dir, err := ts.tasksPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sanitizeTaskName(name)+".yaml"), nil
}

func (ts *TaskStore) tasksPath() (string, error) {
	if ts.configPath != "" {
		return filepath.Join(ts.configPath, tasksDir), nil
	}
	dir, err := GetUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tasksDir), nil
}

// sanitizeTaskName makes a task name safe as a file name. Path separators
// and shell-hostile characters become underscores; runs of underscores
// collapse.
func sanitizeTaskName(name string) string {
	sanitized := name
	for _, c := range []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "."} {
		sanitized = strings.ReplaceAll(sanitized, c, "_")
	}
	sanitized = strings.ReplaceAll(strings.TrimSpace(sanitized), " ", "_")
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		return "unnamed"
	}
	return sanitized
}
