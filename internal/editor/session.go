// Package editor tracks the draft being created or edited.
package editor

import (
	"strings"

	"github.com/nibzard/tasker-go/internal/todo"
)

// Mode is the editor state.
type Mode int

const (
	// Creating drafts a new task.
	Creating Mode = iota
	// Editing drafts changes to an existing task.
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "creating"
}

// Session holds the draft fields and, while editing, the id of the task
// being edited. The zero value is not ready for use; call New.
type Session struct {
	Text     string
	Priority todo.Priority
	Date     string // raw YYYY-MM-DD input, empty for no date

	editingID string
}

// New returns a session in the Creating state with blank drafts.
func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Mode returns the current state.
func (s *Session) Mode() Mode {
	if s.editingID != "" {
		return Editing
	}
	return Creating
}

// EditingID returns the id of the task being edited.
func (s *Session) EditingID() (string, bool) {
	return s.editingID, s.editingID != ""
}

// ActionLabel returns the label of the commit action.
func (s *Session) ActionLabel() string {
	if s.Mode() == Editing {
		return "Update"
	}
	return "Add"
}

// BeginEdit copies the task's fields into the drafts and enters Editing.
func (s *Session) BeginEdit(t todo.Task) {
	s.Text = t.Text
	s.Priority = t.Priority
	s.Date = ""
	if t.Date != nil {
		s.Date = t.Date.String()
	}
	s.editingID = t.ID
}

// Reset blanks the drafts and returns to Creating.
func (s *Session) Reset() {
	s.Text = ""
	s.Priority = todo.DefaultPriority
	s.Date = ""
	s.editingID = ""
}

// Forget resets the session if it is editing the task with the given id.
// It reports whether a reset happened.
func (s *Session) Forget(id string) bool {
	if s.editingID == "" || s.editingID != id {
		return false
	}
	s.Reset()
	return true
}

// Draft returns the parsed draft fields.
func (s *Session) Draft() (text string, priority todo.Priority, date *todo.Date, err error) {
	date, err = todo.ParseDate(s.Date)
	if err != nil {
		return "", "", nil, err
	}
	priority = s.Priority
	if !priority.Valid() {
		priority = todo.DefaultPriority
	}
	return s.Text, priority, date, nil
}

// Blank reports whether the draft text is empty after trimming.
func (s *Session) Blank() bool {
	return strings.TrimSpace(s.Text) == ""
}
