package persist

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasker-go/internal/kv"
	"github.com/nibzard/tasker-go/internal/todo"
)

func sampleTasks() []todo.Task {
	return []todo.Task{
		{ID: "a", Text: "Buy milk", Priority: todo.PriorityHigh},
		{ID: "b", Text: "Pay rent", Completed: true, Priority: todo.PriorityLow, Date: &todo.Date{Year: 2024, Month: 4, Day: 1}},
		{ID: "c", Text: "  spaced  ", Priority: todo.PriorityMedium},
	}
}

func TestLoadFirstRun(t *testing.T) {
	b := NewBridge(kv.NewMemory(), nil)
	st := b.Load()
	assert.NotNil(t, st.Tasks)
	assert.Empty(t, st.Tasks)
	assert.False(t, st.DarkMode)
}

func TestRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) kv.Store{
		"memory": func(t *testing.T) kv.Store { return kv.NewMemory() },
		"file": func(t *testing.T) kv.Store {
			s, err := kv.OpenFile(filepath.Join(t.TempDir(), "state.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) kv.Store {
			s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
			require.NoError(t, err)
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer store.Close()
			b := NewBridge(store, nil)

			for _, tasks := range [][]todo.Task{sampleTasks(), {}} {
				require.NoError(t, b.Save(tasks, true))
				st := b.Load()
				assert.Equal(t, tasks, st.Tasks)
				assert.True(t, st.DarkMode)

				// Saving what was loaded changes nothing.
				require.NoError(t, b.Save(st.Tasks, st.DarkMode))
				assert.Equal(t, st, b.Load())
			}
		})
	}
}

func TestSaveEmptyWritesArray(t *testing.T) {
	store := kv.NewMemory()
	b := NewBridge(store, nil)
	require.NoError(t, b.Save(nil, false))

	data, err := store.Get(KeyTasks)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = store.Get(KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "false", string(data))
}

func TestLoadFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		tasks string
		dark  string
	}{
		{"garbage", "{oops", "maybe"},
		{"wrong shape", `{"tasks":[]}`, `"yes"`},
		{"schema violation", `[{"text":"","completed":false,"priority":"High","date":null}]`, `1`},
		{"null values", `null`, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemory()
			require.NoError(t, store.Set(KeyTasks, []byte(tt.tasks)))
			require.NoError(t, store.Set(KeyDarkMode, []byte(tt.dark)))

			var logs bytes.Buffer
			b := NewBridge(store, log.New(&logs))
			st := b.Load()
			assert.Empty(t, st.Tasks)
			assert.NotNil(t, st.Tasks)
			assert.False(t, st.DarkMode)
		})
	}
}

func TestLoadIndependentKeys(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(KeyTasks, []byte("{broken")))
	require.NoError(t, store.Set(KeyDarkMode, []byte("true")))

	st := NewBridge(store, nil).Load()
	assert.Empty(t, st.Tasks)
	assert.True(t, st.DarkMode, "a broken task list must not reset the theme")
}

func TestLoadLegacyDocument(t *testing.T) {
	store := kv.NewMemory()
	legacy := `[{"text":"Buy milk","completed":true,"priority":"High","date":null},` +
		`{"text":"Pay rent","completed":false,"priority":"Low","date":"2024-04-01"}]`
	require.NoError(t, store.Set(KeyTasks, []byte(legacy)))

	st := NewBridge(store, nil).Load()
	require.Len(t, st.Tasks, 2)
	assert.Equal(t, "Buy milk", st.Tasks[0].Text)
	assert.True(t, st.Tasks[0].Completed)
	assert.Equal(t, "2024-04-01", st.Tasks[1].Date.String())
}

func TestLoadKeepsLenientTasks(t *testing.T) {
	store := kv.NewMemory()
	doc := `[{"id":"a","text":"Buy milk","completed":false,"priority":"Medium","date":null},` +
		`{"id":"b","text":"Pay rent","completed":false,"priority":"Urgent","date":null},` +
		`{"id":"c","text":"Call mom","completed":true,"priority":"low","date":null,"createdAt":"x"}]`
	require.NoError(t, store.Set(KeyTasks, []byte(doc)))

	b := NewBridge(store, nil)
	st := b.Load()
	require.Len(t, st.Tasks, 3)
	assert.Equal(t, todo.PriorityMedium, st.Tasks[1].Priority)
	assert.Equal(t, todo.PriorityLow, st.Tasks[2].Priority)
	assert.True(t, st.Tasks[2].Completed)

	// Saving the loaded state keeps every task.
	require.NoError(t, b.Save(st.Tasks, true))
	assert.Len(t, b.Load().Tasks, 3)
}

type failingStore struct {
	kv.Store
	err error
}

func (f failingStore) Set(string, []byte) error { return f.err }

func TestSaveReportsStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	b := NewBridge(failingStore{Store: kv.NewMemory(), err: boom}, nil)
	err := b.Save(sampleTasks(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
