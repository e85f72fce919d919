// Package persist loads and saves application state through a kv store.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker-go/internal/kv"
	"github.com/nibzard/tasker-go/internal/logging"
	"github.com/nibzard/tasker-go/internal/todo"
)

// Store keys.
const (
	KeyTasks    = "tasks"
	KeyDarkMode = "darkMode"
)

// State is the persisted application state.
type State struct {
	Tasks    []todo.Task
	DarkMode bool
}

// Bridge reads and writes State. Reads never fail: missing or unreadable
// values fall back to an empty task list and a light theme.
type Bridge struct {
	store  kv.Store
	logger *log.Logger
}

// NewBridge returns a bridge over store. A nil logger discards output.
func NewBridge(store kv.Store, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Bridge{store: store, logger: logger}
}

// Load reads both values from the store.
func (b *Bridge) Load() State {
	return State{
		Tasks:    b.loadTasks(),
		DarkMode: b.loadDarkMode(),
	}
}

func (b *Bridge) loadTasks() []todo.Task {
	data, err := b.store.Get(KeyTasks)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			b.logger.Warn("Reading stored tasks failed, starting empty", "err", err)
		}
		return []todo.Task{}
	}
	// A stored JSON null decodes to no tasks.
	if string(data) == "null" || len(data) == 0 {
		return []todo.Task{}
	}
	tasks, err := todo.DecodeDocument(data)
	if err != nil {
		b.logger.Warn("Stored tasks are invalid, starting empty", "err", err)
		return []todo.Task{}
	}
	tasks = todo.NewList(tasks).Tasks()
	b.logger.Debug("Loaded tasks", "count", len(tasks))
	return tasks
}

func (b *Bridge) loadDarkMode() bool {
	data, err := b.store.Get(KeyDarkMode)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			b.logger.Warn("Reading stored theme failed, using light", "err", err)
		}
		return false
	}
	var dark *bool
	if err := json.Unmarshal(data, &dark); err != nil {
		b.logger.Warn("Stored theme is invalid, using light", "err", err)
		return false
	}
	return dark != nil && *dark
}

// Save writes both values unconditionally.
func (b *Bridge) Save(tasks []todo.Task, darkMode bool) error {
	data, err := todo.EncodeDocument(tasks)
	if err != nil {
		return err
	}
	if err := b.store.Set(KeyTasks, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	flag, err := json.Marshal(darkMode)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := b.store.Set(KeyDarkMode, flag); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	b.logger.Debug("Saved state", "tasks", len(tasks), "dark_mode", darkMode)
	return nil
}
