package todo

import (
	"sort"
	"strings"
)

// NoDate is shown for tasks without a due date.
const NoDate = "No Date"

// DefaultLocale is the locale used when none is configured.
const DefaultLocale = "en-IN"

// localeLayouts maps supported locales to Go time layouts.
var localeLayouts = map[string]string{
	"en-in": "2/1/2006",
	"en-gb": "02/01/2006",
	"en-us": "1/2/2006",
	"iso":   "2006-01-02",
}

// Locales returns the supported locale names.
func Locales() []string {
	return []string{"en-IN", "en-GB", "en-US", "iso"}
}

// ValidLocale reports whether locale is supported.
func ValidLocale(locale string) bool {
	_, ok := localeLayouts[strings.ToLower(strings.TrimSpace(locale))]
	return ok
}

// DateLayout returns the time layout for a locale, falling back to
// DefaultLocale.
func DateLayout(locale string) string {
	if layout, ok := localeLayouts[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return layout
	}
	return localeLayouts[strings.ToLower(DefaultLocale)]
}

// FormatDate renders a due date for display.
func FormatDate(d *Date, locale string) string {
	if d == nil {
		return NoDate
	}
	return d.Time().Format(DateLayout(locale))
}

// Sorted returns a copy of tasks ordered by priority rank. Tasks of equal
// priority keep their relative order. The input is not modified.
func Sorted(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

// PriorityColor returns the accent color for a priority.
func PriorityColor(p Priority) string {
	switch p {
	case PriorityHigh:
		return "#ff6b6b"
	case PriorityMedium:
		return "#feca57"
	case PriorityLow:
		return "#1dd1a1"
	default:
		return "#ccc"
	}
}

// Counts returns the number of open and completed tasks.
func Counts(tasks []Task) (open, done int) {
	for i := range tasks {
		if tasks[i].Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}
