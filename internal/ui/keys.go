package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Theme      key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Commit     key.Binding
	Cancel     key.Binding
	ClearAll   key.Binding
	PriorityUp key.Binding
	PriorityDn key.Binding
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Edit       key.Binding
	Delete     key.Binding
	ListQuit   key.Binding
	ConfirmYes key.Binding
	Dismiss    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Theme:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Commit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add/update")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
		ClearAll:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear all")),
		PriorityUp: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "priority")),
		PriorityDn: key.NewBinding(key.WithKeys("right", "l")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		ListQuit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ConfirmYes: key.NewBinding(key.WithKeys("y", "Y")),
		Dismiss:    key.NewBinding(key.WithKeys("enter", "esc", " ")),
	}
}

// formHelp lists the bindings shown while a form field has focus.
func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Commit, k.NextField, k.PriorityUp, k.Cancel, k.ClearAll, k.Theme, k.Quit}
}

// listHelp lists the bindings shown while the task list has focus.
func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Edit, k.Delete, k.NextField, k.ClearAll, k.Theme, k.ListQuit}
}
