package tui

import "charm.land/bubbles/v2/key"

// KeyMap holds the TUI key bindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Complete   key.Binding
	Cancel     key.Binding
	Delete     key.Binding
	FilterAll  key.Binding
	FilterPend key.Binding
	FilterDone key.Binding
	FilterCanc key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Theme      key.Binding
	Layout     key.Binding
	Input      key.Binding
	Focus      key.Binding
	Submit     key.Binding
	Blur       key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Complete:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Cancel:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		FilterAll:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterPend: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pending")),
		FilterDone: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		FilterCanc: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "cancelled")),
		NextFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f/F", "filter")),
		PrevFilter: key.NewBinding(key.WithKeys("F")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Layout:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "layout")),
		Input:      key.NewBinding(key.WithKeys("a", "i", "/"), key.WithHelp("a", "new task")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Blur:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "list")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ListHelp returns the bindings shown while the list has focus.
func (k KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Input, k.Complete, k.Cancel, k.Delete, k.NextFilter, k.Theme, k.Layout, k.Help, k.Quit}
}

// InputHelp returns the bindings shown while the input has focus.
func (k KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Focus, k.Blur}
}

// filterBindings pairs the direct filter keys with their position in
// task.Filters().
func (k KeyMap) filterBindings() []key.Binding {
	return []key.Binding{k.FilterAll, k.FilterPend, k.FilterDone, k.FilterCanc}
}
