// Package app owns the running application state: the task list, the
// editor session, and the theme flag. Every mutation goes through an App
// method and is written through to the Saver.
package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker-go/internal/editor"
	"github.com/nibzard/tasker-go/internal/logging"
	"github.com/nibzard/tasker-go/internal/persist"
	"github.com/nibzard/tasker-go/internal/todo"
)

// Saver persists the full state after a change.
type Saver interface {
	Save(tasks []todo.Task, darkMode bool) error
}

// App is the explicit state store. It is not safe for concurrent use; a
// single event loop owns it.
type App struct {
	list    *todo.List
	session *editor.Session
	dark    bool

	saver  Saver
	logger *log.Logger
}

// New returns an App seeded from state. A nil saver keeps state in memory
// only, and a nil logger discards output.
func New(state persist.State, saver Saver, logger *log.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		list:    todo.NewList(state.Tasks),
		session: editor.New(),
		dark:    state.DarkMode,
		saver:   saver,
		logger:  logger,
	}
}

// Session returns the editor session. Callers may write its draft fields
// directly; transitions go through App.
func (a *App) Session() *editor.Session {
	return a.session
}

// Tasks returns the tasks in canonical order.
func (a *App) Tasks() []todo.Task {
	return a.list.Tasks()
}

// View returns the tasks in display order.
func (a *App) View() []todo.Task {
	return todo.Sorted(a.list.Tasks())
}

// Len returns the number of tasks.
func (a *App) Len() int {
	return a.list.Len()
}

// Get returns the task with the given id.
func (a *App) Get(id string) (todo.Task, bool) {
	return a.list.Get(id)
}

// Resolve maps an id or unique id prefix to a full id.
func (a *App) Resolve(prefix string) (string, error) {
	return a.list.Resolve(prefix)
}

// DarkMode reports the theme flag.
func (a *App) DarkMode() bool {
	return a.dark
}

// CanClear reports whether clearing would remove anything.
func (a *App) CanClear() bool {
	return a.list.Len() > 0
}

// Commit applies the editor drafts. In Creating mode it adds a task, in
// Editing mode it updates the edited task. On success the session returns
// to Creating with blank drafts. Blank text returns todo.ErrEmptyText and
// leaves both the list and the session untouched.
func (a *App) Commit() (todo.Task, error) {
	if a.session.Blank() {
		return todo.Task{}, todo.ErrEmptyText
	}
	text, priority, date, err := a.session.Draft()
	if err != nil {
		return todo.Task{}, err
	}

	var task todo.Task
	if id, ok := a.session.EditingID(); ok {
		if err := a.list.Update(id, text, priority, date); err != nil {
			if errors.Is(err, todo.ErrNotFound) {
				a.session.Reset()
			}
			return todo.Task{}, err
		}
		task, _ = a.list.Get(id)
		a.logger.Info("Updated task", "id", task.ShortID(), "priority", task.Priority)
	} else {
		task, err = a.list.Add(text, priority, date)
		if err != nil {
			return todo.Task{}, err
		}
		a.logger.Info("Added task", "id", task.ShortID(), "priority", task.Priority)
	}
	a.session.Reset()
	return task, a.save()
}

// Add appends a task without touching the editor session.
func (a *App) Add(text string, priority todo.Priority, date *todo.Date) (todo.Task, error) {
	task, err := a.list.Add(text, priority, date)
	if err != nil {
		return todo.Task{}, err
	}
	a.logger.Info("Added task", "id", task.ShortID(), "priority", task.Priority)
	return task, a.save()
}

// BeginEdit loads the task into the editor session.
func (a *App) BeginEdit(id string) error {
	task, ok := a.list.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", todo.ErrNotFound, id)
	}
	a.session.BeginEdit(task)
	a.logger.Debug("Editing task", "id", task.ShortID())
	return nil
}

// CancelEdit discards the drafts and returns to Creating.
func (a *App) CancelEdit() {
	a.session.Reset()
}

// Delete removes a task. If the session is editing it, the session resets.
func (a *App) Delete(id string) error {
	if err := a.list.Delete(id); err != nil {
		return err
	}
	if a.session.Forget(id) {
		a.logger.Debug("Edited task deleted, draft discarded", "id", id)
	}
	a.logger.Info("Deleted task", "id", shortID(id))
	return a.save()
}

// Toggle flips a task's completion flag.
func (a *App) Toggle(id string) error {
	if err := a.list.Toggle(id); err != nil {
		return err
	}
	task, _ := a.list.Get(id)
	a.logger.Info("Toggled task", "id", task.ShortID(), "completed", task.Completed)
	return a.save()
}

// ClearAll removes every task and resets the session.
func (a *App) ClearAll() error {
	n := a.list.Len()
	a.list.Clear()
	a.session.Reset()
	a.logger.Info("Cleared tasks", "count", n)
	return a.save()
}

// ToggleTheme flips the theme flag and returns the new value.
func (a *App) ToggleTheme() (bool, error) {
	dark := !a.dark
	return dark, a.SetDarkMode(dark)
}

// SetDarkMode sets the theme flag.
func (a *App) SetDarkMode(dark bool) error {
	a.dark = dark
	a.logger.Debug("Theme changed", "dark_mode", dark)
	return a.save()
}

func (a *App) save() error {
	if a.saver == nil {
		return nil
	}
	if err := a.saver.Save(a.list.Tasks(), a.dark); err != nil {
		a.logger.Error("Saving state failed", "err", err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func shortID(id string) string {
	t := todo.Task{ID: id}
	return t.ShortID()
}
