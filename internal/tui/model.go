// Package tui implements the interactive task list.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/colonyops/tick/internal/core/layout"
	"github.com/colonyops/tick/internal/core/logging"
	"github.com/colonyops/tick/internal/core/styles"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/colonyops/tick/internal/tasklist"
	"github.com/rs/zerolog"
)

// DefaultDeleteDelay is how long a deleted row shows its exit cue.
const DefaultDeleteDelay = 300 * time.Millisecond

// focusArea is the control receiving key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusAddButton
	focusList
)

// deleteTaskMsg fires when a row's exit cue ends.
type deleteTaskMsg struct {
	ID string
}

// Options configures the model.
type Options struct {
	Theme styles.Theme
	// Layout is the starting mode. When empty the mode follows the terminal
	// width; otherwise resizes leave it alone.
	Layout      layout.Mode
	CellWidth   int
	DeleteDelay time.Duration
	// Watcher reloads the list when another process writes it. nil disables.
	Watcher task.Watcher
	Logger  zerolog.Logger
}

// Model is the bubbletea model for the task list.
type Model struct {
	ctx     context.Context
	store   *tasklist.Store
	watcher task.Watcher
	changes <-chan struct{}
	log     zerolog.Logger

	keys  KeyMap
	help  help.Model
	input textinput.Model
	focus focusArea

	cursor int
	anim   *AnimationStore
	ticks  bool // animation tick chain running

	theme       styles.Theme
	mode        layout.Mode
	autoLayout  bool
	cellWidth   int
	deleteDelay time.Duration

	width  int
	height int

	showHelp bool
	helpBody string

	status    string
	statusErr bool

	quitting bool
}

// New creates a model over store. The store should already be loaded.
func New(ctx context.Context, store *tasklist.Store, opts Options) Model {
	if opts.Theme == "" {
		opts.Theme = styles.DefaultTheme
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = layout.DefaultCellWidth
	}
	if opts.DeleteDelay < 0 {
		opts.DeleteDelay = 0
	}

	styles.SetTheme(opts.Theme)

	m := Model{
		ctx:         logging.WithSource(ctx, logging.SourceTUI),
		store:       store,
		watcher:     opts.Watcher,
		log:         logging.ComponentOf(opts.Logger, "tui"),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		input:       newInput(),
		focus:       focusInput,
		anim:        NewAnimationStore(enterTicks),
		theme:       opts.Theme,
		mode:        opts.Layout,
		autoLayout:  opts.Layout == "",
		cellWidth:   opts.CellWidth,
		deleteDelay: opts.DeleteDelay,
	}
	if m.autoLayout {
		m.mode = layout.Desktop
	}
	m.applyInputStyles()
	m.input.Focus()

	return m
}

func newInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.Prompt = "› "
	ti.CharLimit = 280
	ti.SetWidth(40)
	return ti
}

// applyInputStyles rebuilds widget styles after a theme change.
func (m *Model) applyInputStyles() {
	dark := m.theme != styles.ThemeLight

	inputStyles := textinput.DefaultStyles(dark)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	m.input.SetStyles(inputStyles)

	m.help.Styles = help.DefaultStyles(dark)
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.startWatch()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case watchStartedMsg:
		return m.handleWatchStarted(msg)
	case externalChangeMsg:
		return m.handleExternalChange()
	case tasksChangedMsg:
		m.syncView()
		return m, nil

	case animationTickMsg:
		return m.handleAnimationTick()
	case deleteTaskMsg:
		return m.handleDeleteTask(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Mode returns the active layout mode.
func (m Model) Mode() layout.Mode {
	return m.mode
}

// Theme returns the active theme.
func (m Model) Theme() styles.Theme {
	return m.theme
}

// Cursor returns the selected row index within the visible subset.
func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}
