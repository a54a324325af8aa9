package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/colonyops/tick/internal/core/layout"
	"github.com/colonyops/tick/internal/core/styles"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/colonyops/tick/internal/tui/views/tasks"
)

const appTitle = "tick"

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full screen as a string.
func (m Model) render() string {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	mainView := m.renderMain(w)

	if m.showHelp {
		return m.overlay(mainView, m.renderHelpModal(), w, h)
	}
	return mainView
}

func (m Model) renderMain(width int) string {
	inner := max(20, width-styles.AppStyle.GetHorizontalFrameSize())

	sections := []string{
		m.renderHeader(inner),
		m.renderInput(),
		m.renderFilters(),
		"",
	}

	rows := m.rows()
	sections = append(sections, tasks.Render(rows, m.mode, inner, m.cursor))

	if m.mode == layout.Mobile && m.focus != focusInput {
		if footer := tasks.Footer(rows, m.cursor); footer != "" {
			sections = append(sections, "", footer)
		}
	}

	sections = append(sections, "", m.renderStatus(), m.renderShortHelp())

	return styles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderHeader(width int) string {
	title := styles.TitleStyle.Render(appTitle)
	controls := styles.ButtonStyle.Render(m.theme.ToggleLabel()) + " " +
		styles.MutedStyle.Render("layout: ") + m.renderLayoutSelector()

	gap := width - lipgloss.Width(title) - lipgloss.Width(controls)
	if gap < 1 {
		return lipgloss.JoinVertical(lipgloss.Left, title, controls)
	}
	return title + strings.Repeat(" ", gap) + controls
}

func (m Model) renderLayoutSelector() string {
	parts := make([]string, 0, len(layout.Modes()))
	for _, mode := range layout.Modes() {
		if mode == m.mode {
			parts = append(parts, styles.FilterActiveStyle.Render(string(mode)))
		} else {
			parts = append(parts, styles.MutedStyle.Render(string(mode)))
		}
	}
	return strings.Join(parts, styles.MutedStyle.Render("|"))
}

func (m Model) renderInput() string {
	field := styles.InputStyle
	if m.focus == focusInput {
		field = styles.InputFocusedStyle
	}

	button := styles.ButtonStyle
	if m.focus == focusAddButton {
		button = styles.ButtonSelectedStyle
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		field.Render(m.input.View()),
		" ",
		button.Render("Add"),
	)
}

func (m Model) renderFilters() string {
	counts := m.store.Counts()
	active := m.store.Filter()

	parts := make([]string, 0, len(task.Filters()))
	for _, f := range task.Filters() {
		label := fmt.Sprintf("%s (%d)", f.Label(), counts.For(f))
		if f == active {
			parts = append(parts, styles.FilterActiveStyle.Render(label))
		} else {
			parts = append(parts, styles.FilterStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.ErrorStyle.Render(m.status)
	}
	return styles.StatusStyle.Render(m.status)
}

func (m Model) renderShortHelp() string {
	if m.focus == focusInput {
		return m.help.ShortHelpView(m.keys.InputHelp())
	}
	return m.help.ShortHelpView(m.keys.ListHelp())
}

func (m Model) renderHelpModal() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keys"),
		m.helpBody,
		styles.ModalHelpStyle.Render("esc or ? to close"),
	)
	return styles.ModalStyle.Render(body)
}

// overlay centers fg over bg.
func (m Model) overlay(bg, fg string, w, h int) string {
	bgLayer := lipgloss.NewLayer(bg)
	fgLayer := lipgloss.NewLayer(fg)
	x := max(0, (w-lipgloss.Width(fg))/2)
	y := max(0, (h-lipgloss.Height(fg))/2)
	fgLayer.X(x).Y(y).Z(1)

	return lipgloss.NewCompositor(bgLayer, fgLayer).Render()
}
