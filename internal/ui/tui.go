// Package ui provides the terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker-go/internal/app"
	"github.com/nibzard/tasker-go/internal/editor"
	"github.com/nibzard/tasker-go/internal/logging"
	"github.com/nibzard/tasker-go/internal/todo"
)

const (
	appTitle     = "My To-Do App"
	emptyAlert   = "Task cannot be empty!"
	noTasks      = "No tasks yet. Type one above and press enter."
	dateInputFmt = "YYYY-MM-DD"
)

// Options configures the TUI.
type Options struct {
	// Locale selects the due date format.
	Locale string
	// StorePath is shown in the footer. Empty hides it.
	StorePath string
	Logger    *log.Logger
}

// RunTUI runs the interactive interface over a until the user quits or ctx
// is cancelled.
func RunTUI(ctx context.Context, a *app.App, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(a, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type focus int

const (
	focusText focus = iota
	focusPriority
	focusDate
	focusList
	focusCount
)

type tuiModel struct {
	app    *app.App
	opts   Options
	logger *log.Logger
	keys   keyMap

	text  textinput.Model
	date  textinput.Model
	focus focus

	// cursor indexes the sorted view.
	cursor int

	alert        string
	confirmClear bool
	status       string
	statusErr    bool
	width        int
}

func newTUIModel(a *app.App, opts Options) *tuiModel {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Locale == "" {
		opts.Locale = todo.DefaultLocale
	}

	text := textinput.New()
	text.Prompt = ""
	text.Placeholder = "Enter your task"
	text.Width = 40

	date := textinput.New()
	date.Prompt = ""
	date.Placeholder = dateInputFmt
	date.CharLimit = len(dateInputFmt)
	date.Width = len(dateInputFmt)

	m := &tuiModel{
		app:    a,
		opts:   opts,
		logger: logger,
		keys:   defaultKeyMap(),
		text:   text,
		date:   date,
	}
	m.loadDrafts()
	m.setFocus(focusText)
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 40; w > 20 {
			m.text.Width = w
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The alert blocks all other input until dismissed.
	if m.alert != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = ""
		}
		return m, nil
	}

	if m.confirmClear {
		m.confirmClear = false
		if key.Matches(msg, m.keys.ConfirmYes) {
			m.report(m.app.ClearAll(), "Cleared all tasks")
			m.loadDrafts()
			m.cursor = 0
		} else {
			m.setStatus("Clear cancelled")
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Theme):
		dark, err := m.app.ToggleTheme()
		if dark {
			m.report(err, "Dark theme")
		} else {
			m.report(err, "Light theme")
		}
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.ClearAll):
		if m.app.CanClear() {
			m.confirmClear = true
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		if m.app.Session().Mode() == editor.Editing {
			m.app.CancelEdit()
			m.loadDrafts()
			m.setStatus("Edit cancelled")
		}
		return m, nil
	}

	switch m.focus {
	case focusList:
		return m.handleListKey(msg)
	case focusPriority:
		s := m.app.Session()
		switch {
		case key.Matches(msg, m.keys.PriorityUp):
			s.Priority = s.Priority.Prev()
		case key.Matches(msg, m.keys.PriorityDn):
			s.Priority = s.Priority.Next()
		case key.Matches(msg, m.keys.Commit):
			return m, m.commit()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Commit) {
		return m, m.commit()
	}
	var cmd tea.Cmd
	if m.focus == focusDate {
		m.date, cmd = m.date.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	m.storeDrafts()
	return m, cmd
}

func (m *tuiModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ListQuit) {
		return m, tea.Quit
	}
	view := m.app.View()
	if len(view) == 0 {
		return m, nil
	}
	m.clampCursor(len(view))
	selected := view[m.cursor]

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(view)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.report(m.app.Toggle(selected.ID), "")
	case key.Matches(msg, m.keys.Edit):
		if err := m.app.BeginEdit(selected.ID); err != nil {
			m.report(err, "")
			return m, nil
		}
		m.loadDrafts()
		m.setStatus(fmt.Sprintf("Editing %q", selected.Text))
		return m, m.setFocus(focusText)
	case key.Matches(msg, m.keys.Delete):
		m.report(m.app.Delete(selected.ID), fmt.Sprintf("Deleted %q", selected.Text))
		m.loadDrafts()
		m.clampCursor(m.app.Len())
	}
	return m, nil
}

// commit applies the drafts. Blank text raises the alert and changes nothing.
func (m *tuiModel) commit() tea.Cmd {
	m.storeDrafts()
	label := m.app.Session().ActionLabel()
	task, err := m.app.Commit()
	if errors.Is(err, todo.ErrEmptyText) {
		m.alert = emptyAlert
		return nil
	}
	if err != nil && task.ID == "" {
		m.report(err, "")
		m.loadDrafts()
		return nil
	}
	if label == "Update" {
		m.report(err, fmt.Sprintf("Updated %q", task.Text))
	} else {
		m.report(err, fmt.Sprintf("Added %q", task.Text))
	}
	m.loadDrafts()
	return m.setFocus(focusText)
}

func (m *tuiModel) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.text.Blur()
	m.date.Blur()
	switch f {
	case focusText:
		return m.text.Focus()
	case focusDate:
		return m.date.Focus()
	}
	return nil
}

// loadDrafts copies the session drafts into the inputs.
func (m *tuiModel) loadDrafts() {
	s := m.app.Session()
	m.text.SetValue(s.Text)
	m.text.CursorEnd()
	m.date.SetValue(s.Date)
	m.date.CursorEnd()
}

// storeDrafts copies the inputs into the session drafts.
func (m *tuiModel) storeDrafts() {
	s := m.app.Session()
	s.Text = m.text.Value()
	s.Date = m.date.Value()
}

func (m *tuiModel) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

// report shows err if set, otherwise ok when non-empty.
func (m *tuiModel) report(err error, ok string) {
	if err != nil {
		m.logger.Error("Action failed", "err", err)
		m.status = "Error: " + err.Error()
		m.statusErr = true
		return
	}
	if ok != "" {
		m.setStatus(ok)
	}
}

func (m *tuiModel) View() string {
	st := newStyles(m.app.DarkMode())
	var b strings.Builder

	writeHeader(&b, st, m.app.DarkMode())
	if m.alert != "" {
		b.WriteString(st.alert.Render(m.alert+"\n\nPress enter to continue") + "\n")
		return st.app.Render(b.String())
	}
	m.writeForm(&b, st)
	m.writeTasks(&b, st)
	m.writeFooter(&b, st)
	return st.app.Render(b.String())
}

func writeHeader(b *strings.Builder, st styles, dark bool) {
	// The button names the theme it switches to.
	label := "Dark Mode"
	if dark {
		label = "Light Mode"
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		st.title.Render("📝 "+appTitle),
		"   ",
		st.themeBtn.Render(label+" (ctrl+t)"),
	))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeForm(b *strings.Builder, st styles) {
	s := m.app.Session()
	box := func(f focus, content string) string {
		if m.focus == f {
			return st.focused.Render(content)
		}
		return st.field.Render(content)
	}

	priority := fmt.Sprintf("‹ %s ›", s.Priority)
	row := []string{
		box(focusText, m.text.View()),
		box(focusPriority, priority),
		box(focusDate, m.date.View()),
		st.button.Render("[" + s.ActionLabel() + "]"),
	}
	if m.app.CanClear() {
		row = append(row, st.clearBtn.Render("[Clear All]"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, row...))
	b.WriteString("\n")
	if m.confirmClear {
		b.WriteString(st.errStatus.Render(fmt.Sprintf("Delete all %d tasks? (y/n)", m.app.Len())))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder, st styles) {
	view := m.app.View()
	if len(view) == 0 {
		b.WriteString(st.meta.Render(noTasks) + "\n\n")
		return
	}
	m.clampCursor(len(view))
	for i, task := range view {
		b.WriteString(formatTask(st, task, m.opts.Locale, m.focus == focusList && i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatTask(st styles, t todo.Task, locale string, selected bool) string {
	pointer := "  "
	if selected {
		pointer = st.selected.Render("> ")
	}
	check := "[ ]"
	text := st.task.Render(t.Text)
	if t.Completed {
		check = "[x]"
		text = st.done.Render(t.Text)
	}
	bar := priorityBar(t.Priority)
	meta := fmt.Sprintf("Priority: %s | Due: %s", t.Priority, todo.FormatDate(t.Date, locale))
	return pointer + bar + " " + check + " " + text + "\n" +
		"  " + bar + "     " + st.meta.Render(meta)
}

func (m *tuiModel) writeFooter(b *strings.Builder, st styles) {
	if m.status != "" {
		if m.statusErr {
			b.WriteString(st.errStatus.Render(m.status))
		} else {
			b.WriteString(st.status.Render(m.status))
		}
		b.WriteString("\n")
	}
	open, done := todo.Counts(m.app.Tasks())
	summary := fmt.Sprintf("%d open, %d done", open, done)
	if m.opts.StorePath != "" {
		summary += " | " + m.opts.StorePath
	}
	b.WriteString(st.help.Render(summary) + "\n")

	bindings := m.keys.formHelp()
	if m.focus == focusList {
		bindings = m.keys.listHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	b.WriteString(st.help.Render(strings.Join(parts, " • ")))
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
