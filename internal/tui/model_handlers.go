package tui

import (
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/colonyops/tick/internal/core/layout"
	"github.com/colonyops/tick/internal/core/styles"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/colonyops/tick/internal/tui/views/tasks"
)

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if m.autoLayout {
		m.mode = layout.DetectColumns(msg.Width, m.cellWidth)
	}

	m.input.SetWidth(max(10, min(60, msg.Width-16)))
	if m.showHelp {
		m.helpBody = renderHelp(m.helpWidth())
	}
	return m, nil
}

func (m Model) handleWatchStarted(msg watchStartedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("watching for external changes disabled")
		return m, nil
	}
	m.changes = msg.ch
	return m, listenForChanges(msg.ch)
}

func (m Model) handleExternalChange() (tea.Model, tea.Cmd) {
	if err := m.store.Load(m.ctx); err != nil {
		m.log.Error().Err(err).Msg("reload after external change")
		m.setError("reload failed: %v", err)
	} else {
		m.log.Debug().Msg("reloaded after external change")
	}
	m.syncView()
	return m, listenForChanges(m.changes)
}

func (m Model) handleAnimationTick() (tea.Model, tea.Cmd) {
	m.anim.Tick()
	if m.anim.Ticking() {
		return m, scheduleAnimationTick()
	}
	m.ticks = false
	return m, nil
}

func (m Model) handleDeleteTask(msg deleteTaskMsg) (tea.Model, tea.Cmd) {
	m.anim.Remove(msg.ID)
	m.deleteNow(msg.ID)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.showHelp {
		return m.handleHelpKey(msg)
	}

	switch m.focus {
	case focusInput:
		return m.handleInputKey(msg)
	case focusAddButton:
		return m.handleButtonKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Blur), key.Matches(msg, m.keys.Quit):
		m.showHelp = false
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.addFromInput()
	case key.Matches(msg, m.keys.Focus):
		m.setFocus(focusAddButton)
		return m, nil
	case key.Matches(msg, m.keys.Blur):
		m.setFocus(focusList)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleButtonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.addFromInput()
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Blur):
		m.setFocus(focusList)
		return m, nil
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for i, b := range m.keys.filterBindings() {
		if key.Matches(msg, b) {
			m.setFilter(task.Filters()[i])
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Input):
		return m, m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Complete):
		m.runStatusAction(tasks.ActionComplete)
	case key.Matches(msg, m.keys.Cancel):
		m.runStatusAction(tasks.ActionCancel)
	case key.Matches(msg, m.keys.Delete):
		return m.scheduleDelete()
	case key.Matches(msg, m.keys.NextFilter):
		m.setFilter(m.store.Filter().Next())
	case key.Matches(msg, m.keys.PrevFilter):
		m.setFilter(m.store.Filter().Prev())
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	case key.Matches(msg, m.keys.Layout):
		m.mode = m.mode.Next()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpBody = renderHelp(m.helpWidth())
	}

	return m, nil
}

// addFromInput adds the typed text. Blank input is ignored and kept.
func (m Model) addFromInput() (tea.Model, tea.Cmd) {
	t, ok, err := m.store.Add(m.ctx, m.input.Value())
	if err != nil {
		m.setError("add failed: %v", err)
		return m, nil
	}
	if !ok {
		return m, nil
	}

	m.input.SetValue("")
	m.clearStatus()
	m.anim.MarkEntering(t.ID)
	m.syncView()

	// land the cursor on the new row when it is visible
	if rows := m.rows(); len(rows) > 0 {
		for _, r := range rows {
			if r.Task.ID == t.ID {
				m.cursor = r.Index
			}
		}
	}

	return m, m.ensureAnimationTick()
}

// selected resolves the cursor row to a task.
func (m Model) selected() (task.Task, bool) {
	return m.store.Resolve(m.store.Filter(), m.cursor)
}

// selectedAction returns the enabled action of kind on the cursor row.
func (m Model) selectedAction(kind tasks.ActionKind) (tasks.Action, bool) {
	t, ok := m.selected()
	if !ok {
		return tasks.Action{}, false
	}
	for _, r := range m.rows() {
		if r.Task.ID != t.ID {
			continue
		}
		for _, a := range r.Actions {
			if a.Kind == kind && a.Enabled {
				return a, true
			}
		}
	}
	return tasks.Action{}, false
}

func (m *Model) runStatusAction(kind tasks.ActionKind) {
	a, ok := m.selectedAction(kind)
	if !ok {
		return
	}
	status, ok := a.Status()
	if !ok {
		return
	}

	err := m.store.SetStatus(m.ctx, a.TaskID, status)
	switch {
	case err == nil:
		m.clearStatus()
	case errors.Is(err, task.ErrTerminal), errors.Is(err, task.ErrNotFound):
		// closed tasks stay closed; a vanished task has nothing to update
	default:
		m.setError("update failed: %v", err)
	}
	m.syncView()
}

func (m Model) scheduleDelete() (tea.Model, tea.Cmd) {
	a, ok := m.selectedAction(tasks.ActionDelete)
	if !ok {
		return m, nil
	}

	if m.deleteDelay <= 0 {
		m.deleteNow(a.TaskID)
		return m, nil
	}

	m.anim.MarkExiting(a.TaskID)
	id := a.TaskID
	return m, tea.Tick(m.deleteDelay, func(time.Time) tea.Msg {
		return deleteTaskMsg{ID: id}
	})
}

func (m *Model) deleteNow(id string) {
	err := m.store.Delete(m.ctx, id)
	switch {
	case err == nil:
		m.clearStatus()
	case errors.Is(err, task.ErrNotFound):
	default:
		m.setError("delete failed: %v", err)
	}
	m.syncView()
}

func (m *Model) setFilter(f task.Filter) {
	if f == m.store.Filter() {
		return
	}
	m.store.SetFilter(f)
	m.cursor = 0
	m.syncView()
}

func (m *Model) toggleTheme() {
	m.theme = m.theme.Toggle()
	styles.SetTheme(m.theme)
	m.applyInputStyles()
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.store.Visible())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(n-1, m.cursor+delta))
}

// syncView clamps the cursor and drops cues of tasks that no longer exist.
func (m *Model) syncView() {
	n := len(m.store.Visible())
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}

	m.anim.Retain(func(id string) bool {
		_, ok := m.store.Get(id)
		return ok
	})
}

func (m *Model) ensureAnimationTick() tea.Cmd {
	if m.ticks || !m.anim.Ticking() {
		return nil
	}
	m.ticks = true
	return scheduleAnimationTick()
}

func (m Model) rows() []tasks.Row {
	return tasks.Rows(m.store.Tasks(), m.store.Filter(), m.anim)
}

func (m Model) helpWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(20, min(80, m.width-8))
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
	m.log.Error().Msg(m.status)
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}
