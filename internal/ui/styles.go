package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasker-go/internal/todo"
)

// palette holds the colors for one theme.
type palette struct {
	fg, muted, bg, border, accent, danger lipgloss.Color
}

var (
	lightPalette = palette{
		fg:     lipgloss.Color("#333333"),
		muted:  lipgloss.Color("#777777"),
		bg:     lipgloss.Color("#f4f4f4"),
		border: lipgloss.Color("#cccccc"),
		accent: lipgloss.Color("#007bff"),
		danger: lipgloss.Color("#ff4d4d"),
	}
	darkPalette = palette{
		fg:     lipgloss.Color("#f4f4f4"),
		muted:  lipgloss.Color("#aaaaaa"),
		bg:     lipgloss.Color("#1e1e1e"),
		border: lipgloss.Color("#444444"),
		accent: lipgloss.Color("#4da3ff"),
		danger: lipgloss.Color("#ff6b6b"),
	}
)

type styles struct {
	app       lipgloss.Style
	title     lipgloss.Style
	themeBtn  lipgloss.Style
	field     lipgloss.Style
	focused   lipgloss.Style
	button    lipgloss.Style
	clearBtn  lipgloss.Style
	task      lipgloss.Style
	done      lipgloss.Style
	meta      lipgloss.Style
	selected  lipgloss.Style
	alert     lipgloss.Style
	status    lipgloss.Style
	errStatus lipgloss.Style
	help      lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		app:       lipgloss.NewStyle().Padding(1, 2).Foreground(p.fg).Background(p.bg),
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.fg),
		themeBtn:  lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Foreground(p.accent),
		field:     lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder()).BorderForeground(p.border),
		focused:   lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.ThickBorder()).BorderForeground(p.accent),
		button:    lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(p.accent),
		clearBtn:  lipgloss.NewStyle().Padding(0, 1).Foreground(p.danger),
		task:      lipgloss.NewStyle().Foreground(p.fg),
		done:      lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true),
		meta:      lipgloss.NewStyle().Foreground(p.muted),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		alert:     lipgloss.NewStyle().Bold(true).Padding(1, 3).Border(lipgloss.DoubleBorder()).BorderForeground(p.danger).Foreground(p.danger),
		status:    lipgloss.NewStyle().Foreground(p.muted),
		errStatus: lipgloss.NewStyle().Foreground(p.danger),
		help:      lipgloss.NewStyle().Foreground(p.muted),
	}
}

// priorityBar renders the colored left edge of a task row.
func priorityBar(p todo.Priority) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(todo.PriorityColor(p))).Render("▌")
}
