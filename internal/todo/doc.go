// Package todo holds the task list and its display helpers.
//
// A task list is an ordered collection of tasks. Insertion order is the
// canonical order and is what gets persisted. Each task carries a stable
// id generated when it is added, and every operation addresses tasks by
// that id rather than by position.
//
// The persisted document is a JSON array:
//
//	[
//	  {
//	    "id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
//	    "text": "Buy milk",
//	    "completed": false,
//	    "priority": "High",
//	    "date": "2024-03-05"
//	  }
//	]
//
// # Priorities
//
//   - "High": rank 1
//   - "Medium": rank 2 (default)
//   - "Low": rank 3
//
// # Display
//
// Sorted returns a stable copy ordered by rank. FormatDate renders a due
// date for a locale, or "No Date" when the task has none.
package todo
