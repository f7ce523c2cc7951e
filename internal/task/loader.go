package task

import (
	"fmt"
	"os"

	"simbadrun/internal/mode"
	"simbadrun/pkg/logging"

	"gopkg.in/yaml.v3"
)

// taskFile is the on-disk YAML shape of a task.
type taskFile struct {
	Name       string         `yaml:"name"`
	Mode       string         `yaml:"mode,omitempty"`
	Parameters map[string]any `yaml:"parameters,omitempty"`
	Extensions []string       `yaml:"extensions,omitempty"`
}

// LoadFromFile loads a single task definition from a YAML file. A missing
// mode field leaves the task's mode unset; a present but unknown mode
// spelling is a configuration error.
func LoadFromFile(path string) (*Task, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file %s: %w", path, err)
	}

	var tf taskFile
	if err := yaml.Unmarshal(content, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	t := New(tf.Name, "")
	if tf.Mode != "" {
		m, err := mode.ParseMode(tf.Mode)
		if err != nil {
			return nil, fmt.Errorf("task file %s: %w", path, err)
		}
		t.Mode = m
	}
	for key, value := range tf.Parameters {
		t.Parameters.Set(key, value)
	}
	for _, fragment := range tf.Extensions {
		t.Extensions.Append(fragment)
	}

	logging.Debug("TaskLoader", "Loaded task %q from %s", t.Name, path)
	return t, nil
}

// Marshal renders a task definition as YAML.
func Marshal(t *Task) ([]byte, error) {
	tf := taskFile{
		Name:       t.Name,
		Mode:       string(t.Mode),
		Parameters: t.Parameters.Snapshot(),
		Extensions: t.Extensions.InOrder(),
	}

	content, err := yaml.Marshal(&tf)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task %q: %w", t.Name, err)
	}
	return content, nil
}

// SaveToFile writes a task definition to a YAML file.
func SaveToFile(t *Task, path string) error {
	content, err := Marshal(t)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write task file %s: %w", path, err)
	}

	logging.Debug("TaskLoader", "Saved task %q to %s", t.Name, path)
	return nil
}
