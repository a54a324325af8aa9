package tasks

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/colonyops/tick/internal/core/layout"
	"github.com/colonyops/tick/internal/core/styles"
)

const (
	ellipsis     = "…"
	addedPrefix  = "Added: "
	emptyMessage = "No tasks"
)

// Render draws rows for the given layout mode. cursor is the index of the
// selected row; width bounds every line.
func Render(rows []Row, mode layout.Mode, width, cursor int) string {
	if len(rows) == 0 {
		return styles.MutedStyle.Render(emptyMessage)
	}

	lines := make([]string, 0, len(rows)*2)
	for _, r := range rows {
		selected := r.Index == cursor
		switch mode {
		case layout.Mobile:
			lines = append(lines, renderMobile(r, width, selected))
		case layout.Tablet:
			lines = append(lines, renderTablet(r, width, selected)...)
		default:
			lines = append(lines, renderDesktop(r, width, selected))
		}
	}

	return strings.Join(lines, "\n")
}

// Footer returns the action hints for the selected row. Mobile rows carry
// no inline hints, so the footer shows them instead.
func Footer(rows []Row, cursor int) string {
	for _, r := range rows {
		if r.Index == cursor {
			return renderActions(r.Actions)
		}
	}
	return ""
}

func renderDesktop(r Row, width int, selected bool) string {
	prefix := gutter(selected) + styles.StatusStyleFor(r.Task.Status).Render(styles.StatusIcon(r.Task.Status)) + " "
	meta := "  " + styles.TimestampStyle.Render(addedPrefix+r.Task.Timestamp) + "  " + renderActions(r.Actions)

	textWidth := width - lipgloss.Width(prefix) - lipgloss.Width(meta)
	if textWidth < 8 {
		textWidth = 8
	}

	return ansi.Truncate(prefix+text(r, textWidth, selected)+meta, width, ellipsis)
}

func renderTablet(r Row, width int, selected bool) []string {
	prefix := gutter(selected) + styles.StatusStyleFor(r.Task.Status).Render(styles.StatusIcon(r.Task.Status)) + " "
	first := prefix + text(r, width-lipgloss.Width(prefix), selected)

	indent := strings.Repeat(" ", lipgloss.Width(prefix))
	second := indent + styles.TimestampStyle.Render(addedPrefix+r.Task.Timestamp) + "  " + renderActions(r.Actions)

	return []string{first, ansi.Truncate(second, width, ellipsis)}
}

func renderMobile(r Row, width int, selected bool) string {
	prefix := gutter(selected)
	return prefix + text(r, width-lipgloss.Width(prefix), selected)
}

// text renders the task text truncated to width with its status and cue
// styling applied.
func text(r Row, width int, selected bool) string {
	if width < 1 {
		width = 1
	}
	s := ansi.Truncate(r.Task.Text, width, ellipsis)

	style := styles.StatusStyleFor(r.Task.Status)
	switch {
	case r.Cue == CueExiting:
		style = styles.RowExitingStyle
	case r.Cue == CueEntering:
		style = styles.RowEnteringStyle
	case selected:
		style = styles.RowSelectedStyle
	}
	return style.Render(s)
}

func gutter(selected bool) string {
	if selected {
		return styles.TitleStyle.Render(styles.IconCursor) + " "
	}
	return "  "
}

func renderActions(actions []Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		label := "[" + a.Key + "] " + a.Label
		if a.Enabled {
			parts = append(parts, styles.ActionHintStyle.Render(label))
		} else {
			parts = append(parts, styles.MutedStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
