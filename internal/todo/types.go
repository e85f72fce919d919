// Package todo holds the task list and its display helpers.
package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyText is returned when a task's text is blank after trimming.
	ErrEmptyText = errors.New("task cannot be empty")
	// ErrNotFound is returned when no task has the given id.
	ErrNotFound = errors.New("task not found")
	// ErrAmbiguousID is returned when an id prefix matches several tasks.
	ErrAmbiguousID = errors.New("ambiguous task id")
)

// Priority represents a task priority.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is used for new drafts and for unknown stored values.
const DefaultPriority = PriorityMedium

// Priorities lists the priorities in rank order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Rank returns the sort rank of the priority. Unknown values rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p.Rank() < 4
}

// Next returns the following priority, wrapping from Low to High.
func (p Priority) Next() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

// Prev returns the preceding priority, wrapping from High to Low.
func (p Priority) Prev() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority parses a priority name. Matching is case-insensitive and
// accepts the first letter as shorthand.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "med", "m", "":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority %q, must be one of: High, Medium, Low", s)
}

// dateLayout is the stored and input form of a due date.
const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD date. A blank string yields nil.
func ParseDate(s string) (*Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	d := DateOf(t)
	return &d, nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC on the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	if parsed == nil {
		*d = Date{}
		return nil
	}
	*d = *parsed
	return nil
}

// Task represents a single to-do item.
type Task struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	Date      *Date    `json:"date"`
}

// HasDate reports whether the task has a due date.
func (t *Task) HasDate() bool {
	return t.Date != nil
}

// ShortID returns the first eight characters of the id.
func (t *Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// NewID returns a fresh task id.
func NewID() string {
	return uuid.NewString()
}

// List is an ordered task collection. The zero value is an empty list.
type List struct {
	tasks []Task
	newID func() string
}

// NewList returns a list holding a copy of tasks. Tasks without an id get
// one. Priorities are matched case-insensitively and unknown ones become
// the default.
func NewList(tasks []Task) *List {
	l := &List{tasks: make([]Task, 0, len(tasks))}
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = l.id()
		}
		t.Priority = normalizePriority(t.Priority)
		l.tasks = append(l.tasks, t)
	}
	return l
}

func normalizePriority(p Priority) Priority {
	if p.Valid() {
		return p
	}
	if parsed, err := ParsePriority(string(p)); err == nil {
		return parsed
	}
	return DefaultPriority
}

func (l *List) id() string {
	if l.newID != nil {
		return l.newID()
	}
	return NewID()
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns a copy of the tasks in canonical order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Get returns the task with the given id.
func (l *List) Get(id string) (Task, bool) {
	i := l.index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i], true
}

func (l *List) index(id string) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Resolve maps an id or unique id prefix to a full task id.
func (l *List) Resolve(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	match := ""
	for i := range l.tasks {
		id := l.tasks[i].ID
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, prefix)
	}
	return match, nil
}

// Add appends a new incomplete task. Blank text returns ErrEmptyText and
// leaves the list unchanged.
func (l *List) Add(text string, priority Priority, date *Date) (Task, error) {
	if strings.TrimSpace(text) == "" {
		return Task{}, ErrEmptyText
	}
	if !priority.Valid() {
		priority = DefaultPriority
	}
	t := Task{
		ID:        l.id(),
		Text:      text,
		Completed: false,
		Priority:  priority,
		Date:      copyDate(date),
	}
	l.tasks = append(l.tasks, t)
	return t, nil
}

// Update replaces a task's text, priority, and date, keeping its
// completion flag.
func (l *List) Update(id, text string, priority Priority, date *Date) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if !priority.Valid() {
		priority = DefaultPriority
	}
	l.tasks[i] = Task{
		ID:        id,
		Text:      text,
		Completed: l.tasks[i].Completed,
		Priority:  priority,
		Date:      copyDate(date),
	}
	return nil
}

// Delete removes a task. Later tasks keep their relative order.
func (l *List) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	l.tasks = append(l.tasks[:i:i], l.tasks[i+1:]...)
	return nil
}

// Toggle flips a task's completion flag.
func (l *List) Toggle(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	return nil
}

// Clear removes every task.
func (l *List) Clear() {
	l.tasks = []Task{}
}

func copyDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
