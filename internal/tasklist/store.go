// Package tasklist owns the in-memory task list, keeps it in sync with a
// task.Repository, and tracks the active filter.
package tasklist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/tick/internal/core/logging"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/rs/zerolog"
)

// DefaultTimestampLayout renders creation times as "1/2/2006, 3:04:05 PM".
const DefaultTimestampLayout = "1/2/2006, 3:04:05 PM"

// Store is the single owner of the task list. Every mutation is persisted
// before it returns; if persisting fails the in-memory change is undone.
type Store struct {
	repo     task.Repository
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
	layout   string
	onChange func()

	mu     sync.RWMutex
	tasks  []task.Task
	filter task.Filter
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc sets the task ID generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithTimestampLayout sets the time layout used for creation timestamps.
func WithTimestampLayout(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithOnChange registers a callback fired after every successful change.
func WithOnChange(fn func()) Option {
	return func(s *Store) { s.onChange = fn }
}

// New creates a store over repo. The list is empty until Load is called.
func New(repo task.Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		log:    zerolog.Nop(),
		now:    time.Now,
		newID:  task.NewID,
		layout: DefaultTimestampLayout,
		tasks:  []task.Task{},
		filter: task.FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.ComponentOf(s.log, "tasklist")
	return s
}

// Load replaces the in-memory list with the stored one.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load task list: %w", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	s.log.Debug().Int("count", len(tasks)).Msg("task list loaded")
	s.notify()
	return nil
}

// Add appends a new pending task. Text is trimmed; blank text is ignored and
// reported with ok == false.
func (s *Store) Add(ctx context.Context, text string) (task.Task, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return task.Task{}, false, nil
	}

	t := task.Task{
		ID:        s.newID(),
		Text:      text,
		Status:    task.StatusPending,
		Timestamp: s.now().Format(s.layout),
	}

	err := s.mutate(ctx, func(tasks []task.Task) ([]task.Task, error) {
		return append(tasks, t), nil
	})
	if err != nil {
		return task.Task{}, false, fmt.Errorf("add task: %w", err)
	}

	s.log.Info().Ctx(logging.WithTaskID(ctx, t.ID)).Msg("task added")
	return t, true, nil
}

// SetStatus moves a pending task to completed or cancelled.
func (s *Store) SetStatus(ctx context.Context, id string, status task.Status) error {
	if !status.IsValid() || !status.IsTerminal() {
		return fmt.Errorf("set status %q: %w", status, task.ErrInvalidStatus)
	}

	err := s.mutate(ctx, func(tasks []task.Task) ([]task.Task, error) {
		i := task.IndexOf(tasks, id)
		if i < 0 {
			return nil, task.ErrNotFound
		}
		if !tasks[i].Status.CanTransition(status) {
			return nil, task.ErrTerminal
		}
		tasks[i].Status = status
		return tasks, nil
	})
	if err != nil {
		return fmt.Errorf("set status of %s: %w", id, err)
	}

	s.log.Info().Ctx(logging.WithTaskID(ctx, id)).Str("status", string(status)).Msg("task status changed")
	return nil
}

// Delete removes the task with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.mutate(ctx, func(tasks []task.Task) ([]task.Task, error) {
		i := task.IndexOf(tasks, id)
		if i < 0 {
			return nil, task.ErrNotFound
		}
		return append(tasks[:i], tasks[i+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}

	s.log.Info().Ctx(logging.WithTaskID(ctx, id)).Msg("task deleted")
	return nil
}

// SetFilter replaces the active filter. Filters are never persisted.
func (s *Store) SetFilter(f task.Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	s.notify()
}

// Filter returns the active filter.
func (s *Store) Filter() task.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Tasks returns a copy of the full list in insertion order.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return task.Clone(s.tasks)
}

// Visible returns the tasks matching the active filter.
func (s *Store) Visible() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return task.Visible(s.tasks, s.filter)
}

// Counts returns per-status tallies over the full list.
func (s *Store) Counts() task.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return task.CountAll(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

// Resolve returns the task at index within the subset matching f. An index
// out of range reports false.
func (s *Store) Resolve(f task.Filter, index int) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return task.At(s.tasks, f, index)
}

// Lookup finds a task by full ID or unique ID prefix.
func (s *Store) Lookup(ref string) (task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, task.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := task.IndexOf(s.tasks, ref); i >= 0 {
		return s.tasks[i], nil
	}

	var (
		match task.Task
		found int
	)
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			match = t
			found++
		}
	}

	switch found {
	case 0:
		return task.Task{}, fmt.Errorf("%q: %w", ref, task.ErrNotFound)
	case 1:
		return match, nil
	default:
		return task.Task{}, fmt.Errorf("%q matches %d tasks: %w", ref, found, task.ErrAmbiguous)
	}
}

// mutate reloads the stored list, applies fn to it, persists the result and
// swaps it in. Writes made by other processes since the last load are kept.
// When fn or Save fails the list reflects storage as reloaded.
func (s *Store) mutate(ctx context.Context, fn func([]task.Task) ([]task.Task, error)) error {
	s.mu.Lock()

	current, err := s.repo.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("reload: %w", err)
	}
	if current == nil {
		current = []task.Task{}
	}
	s.tasks = current

	next, err := fn(task.Clone(current))
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.log.Error().Ctx(ctx).Err(err).Msg("persist task list")
		return fmt.Errorf("persist: %w", err)
	}

	s.tasks = next
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
