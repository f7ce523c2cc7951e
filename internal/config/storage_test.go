package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewTaskStoreWithPath(t.TempDir())

	data := []byte("name: toxd\nmode: LATTICE\n")
	require.NoError(t, store.Save("toxd", data))

	loaded, err := store.Load("toxd")
	require.NoError(t, err)
	assert.Equal(t, data, loaded)
}

func TestTaskStore_LoadMissing(t *testing.T) {
	store := NewTaskStoreWithPath(t.TempDir())

	_, err := store.Load("absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTaskStore_List(t *testing.T) {
	store := NewTaskStoreWithPath(t.TempDir())

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Save("beta", []byte("name: beta\n")))
	require.NoError(t, store.Save("alpha", []byte("name: alpha\n")))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestTaskStore_Delete(t *testing.T) {
	store := NewTaskStoreWithPath(t.TempDir())

	require.NoError(t, store.Save("gone", []byte("name: gone\n")))
	require.NoError(t, store.Delete("gone"))

	_, err := store.Load("gone")
	assert.Error(t, err)

	err = store.Delete("gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTaskStore_EmptyName(t *testing.T) {
	store := NewTaskStoreWithPath(t.TempDir())

	assert.Error(t, store.Save("", []byte("x")))
	_, err := store.Load("")
	assert.Error(t, err)
	assert.Error(t, store.Delete(""))
}

func TestSanitizeTaskName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "toxd", want: "toxd"},
		{input: "my task", want: "my_task"},
		{input: "a/b\\c:d", want: "a_b_c_d"},
		{input: "dots.every.where", want: "dots_every_where"},
		{input: "__already__odd__", want: "already_odd"},
		{input: "///", want: "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeTaskName(tt.input))
		})
	}
}

func TestTaskStore_SanitizedPathsRoundTrip(t *testing.T) {
	store := NewTaskStoreWithPath(t.TempDir())

	require.NoError(t, store.Save("my task.v2", []byte("name: my task.v2\n")))

	// The sanitized name is what List reports and Load resolves.
	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"my_task_v2"}, names)

	loaded, err := store.Load("my task.v2")
	require.NoError(t, err)
	assert.NotEmpty(t, loaded)
}
