package tui

import (
	tea "charm.land/bubbletea/v2"
)

// tasksChangedMsg signals that the store's list or filter changed.
type tasksChangedMsg struct{}

// externalChangeMsg signals that another process wrote the stored list.
type externalChangeMsg struct{}

// watchStartedMsg carries the change channel once watching begins.
type watchStartedMsg struct {
	ch  <-chan struct{}
	err error
}

// startWatch subscribes to repository changes.
func (m Model) startWatch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}

	ctx := m.ctx
	w := m.watcher
	return func() tea.Msg {
		ch, err := w.Watch(ctx)
		return watchStartedMsg{ch: ch, err: err}
	}
}

// listenForChanges waits for the next change signal. A closed channel ends
// the listen loop.
func listenForChanges(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return externalChangeMsg{}
	}
}

// Changed returns the message telling a running model that the list changed
// outside its own key handling.
func Changed() tea.Msg {
	return tasksChangedMsg{}
}
