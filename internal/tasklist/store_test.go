package tasklist

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/colonyops/tick/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory task.Repository that records saves.
type memRepo struct {
	saved   []task.Task
	saves   int
	saveErr error
	loadErr error
}

func (r *memRepo) Load(ctx context.Context) ([]task.Task, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return task.Clone(r.saved), nil
}

func (r *memRepo) Save(ctx context.Context, tasks []task.Task) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.saved = task.Clone(tasks)
	return nil
}

func newTestStore(t *testing.T, repo *memRepo, opts ...Option) *Store {
	t.Helper()

	n := 0
	base := []Option{
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 15, 4, 5, 0, time.Local) }),
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	}
	s := New(repo, append(base, opts...)...)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func seed(t *testing.T, s *Store, texts ...string) []task.Task {
	t.Helper()
	out := make([]task.Task, 0, len(texts))
	for _, text := range texts {
		tk, ok, err := s.Add(context.Background(), text)
		require.NoError(t, err)
		require.True(t, ok)
		out = append(out, tk)
	}
	return out
}

func TestStore_Add(t *testing.T) {
	repo := &memRepo{}
	s := newTestStore(t, repo)

	tk, ok, err := s.Add(context.Background(), "  Buy milk  ")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "id-1", tk.ID)
	assert.Equal(t, "Buy milk", tk.Text)
	assert.Equal(t, task.StatusPending, tk.Status)
	assert.Equal(t, "3/1/2026, 3:04:05 PM", tk.Timestamp)

	assert.Len(t, s.Tasks(), 1)
	assert.Equal(t, s.Tasks(), repo.saved, "persisted list matches memory")
}

func TestStore_AddBlankIsNoop(t *testing.T) {
	repo := &memRepo{}
	changes := 0
	s := newTestStore(t, repo, WithOnChange(func() { changes++ }))
	changes = 0

	for _, text := range []string{"", "   ", "\t\n"} {
		_, ok, err := s.Add(context.Background(), text)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	assert.Empty(t, s.Tasks())
	assert.Zero(t, repo.saves)
	assert.Zero(t, changes)
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	s := newTestStore(t, &memRepo{})
	seed(t, s, "a", "b", "c")

	var texts []string
	for _, tk := range s.Tasks() {
		texts = append(texts, tk.Text)
	}
	assert.Equal(t, []string{"a", "b", "c"}, texts)
}

func TestStore_SetStatus(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	s := newTestStore(t, repo)
	tasks := seed(t, s, "a", "b", "c")

	require.NoError(t, s.SetStatus(ctx, tasks[1].ID, task.StatusCompleted))

	got := s.Tasks()
	assert.Equal(t, task.StatusPending, got[0].Status)
	assert.Equal(t, task.StatusCompleted, got[1].Status)
	assert.Equal(t, task.StatusPending, got[2].Status)
	assert.Equal(t, got, repo.saved)
}

func TestStore_SetStatusErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &memRepo{})
	tasks := seed(t, s, "a")
	require.NoError(t, s.SetStatus(ctx, tasks[0].ID, task.StatusCancelled))

	tests := []struct {
		name   string
		id     string
		status task.Status
		want   error
	}{
		{name: "terminal", id: tasks[0].ID, status: task.StatusCompleted, want: task.ErrTerminal},
		{name: "unknown id", id: "nope", status: task.StatusCompleted, want: task.ErrNotFound},
		{name: "back to pending", id: tasks[0].ID, status: task.StatusPending, want: task.ErrInvalidStatus},
		{name: "garbage status", id: tasks[0].ID, status: task.Status("archived"), want: task.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetStatus(ctx, tt.id, tt.status)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	got, _ := s.Get(tasks[0].ID)
	assert.Equal(t, task.StatusCancelled, got.Status)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	s := newTestStore(t, repo)
	tasks := seed(t, s, "a", "b", "c")

	require.NoError(t, s.Delete(ctx, tasks[1].ID))

	got := s.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "c", got[1].Text)
	assert.Equal(t, got, repo.saved)

	assert.ErrorIs(t, s.Delete(ctx, tasks[1].ID), task.ErrNotFound)
}

func TestStore_DeleteVisiblePositionUnderFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &memRepo{})
	tasks := seed(t, s, "a", "b", "c")
	require.NoError(t, s.SetStatus(ctx, tasks[2].ID, task.StatusCompleted))

	s.SetFilter(task.FilterCompleted)
	target, ok := s.Resolve(s.Filter(), 0)
	require.True(t, ok)
	require.NoError(t, s.Delete(ctx, target.ID))

	got := s.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "b", got[1].Text)
}

func TestStore_OverlappingDeletesByID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &memRepo{})
	tasks := seed(t, s, "a", "b", "c", "d")

	// both deletes are scheduled before either fires
	first, second := tasks[0].ID, tasks[1].ID
	require.NoError(t, s.Delete(ctx, first))
	require.NoError(t, s.Delete(ctx, second))

	got := s.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Text)
	assert.Equal(t, "d", got[1].Text)
}

func TestStore_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	s := newTestStore(t, repo)
	tasks := seed(t, s, "a")

	repo.saveErr = errors.New("disk full")

	_, _, err := s.Add(ctx, "b")
	require.Error(t, err)

	err = s.SetStatus(ctx, tasks[0].ID, task.StatusCompleted)
	require.Error(t, err)

	err = s.Delete(ctx, tasks[0].ID)
	require.Error(t, err)

	got := s.Tasks()
	require.Len(t, got, 1)
	assert.Equal(t, task.StatusPending, got[0].Status)
	assert.Equal(t, got, repo.saved)
}

func TestStore_MutationKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	tui := newTestStore(t, repo)
	mine := seed(t, tui, "from tui")[0]

	cli := New(repo, WithIDFunc(func() string { return "cli-1" }))
	require.NoError(t, cli.Load(ctx))
	_, _, err := cli.Add(ctx, "from cli")
	require.NoError(t, err)

	require.NoError(t, tui.SetStatus(ctx, mine.ID, task.StatusCompleted))

	require.Len(t, repo.saved, 2)
	assert.Equal(t, task.StatusCompleted, repo.saved[0].Status)
	assert.Equal(t, "from cli", repo.saved[1].Text)
	assert.Equal(t, repo.saved, tui.Tasks())
}

func TestStore_MutationSeesExternalDelete(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	s := newTestStore(t, repo)
	tasks := seed(t, s, "a", "b")

	repo.saved = task.Clone(repo.saved[1:])

	err := s.SetStatus(ctx, tasks[0].ID, task.StatusCompleted)
	require.ErrorIs(t, err, task.ErrNotFound)
	assert.Equal(t, repo.saved, s.Tasks())
}

func TestStore_MutationReloadFailure(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	s := newTestStore(t, repo)
	seed(t, s, "a")

	repo.loadErr = errors.New("io")
	_, _, err := s.Add(ctx, "b")
	require.Error(t, err)
	assert.Len(t, repo.saved, 1)
	assert.Len(t, s.Tasks(), 1)
}

func TestStore_Filter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &memRepo{})
	tasks := seed(t, s, "p", "c", "x")
	require.NoError(t, s.SetStatus(ctx, tasks[1].ID, task.StatusCompleted))
	require.NoError(t, s.SetStatus(ctx, tasks[2].ID, task.StatusCancelled))

	assert.Equal(t, task.FilterAll, s.Filter())
	assert.Len(t, s.Visible(), 3)

	s.SetFilter(task.FilterCompleted)
	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "c", visible[0].Text)

	assert.Equal(t, task.Counts{Pending: 1, Completed: 1, Cancelled: 1}, s.Counts())

	_, ok := s.Resolve(task.FilterCompleted, 1)
	assert.False(t, ok)
	_, ok = s.Resolve(task.FilterCompleted, -1)
	assert.False(t, ok)
}

func TestStore_SetFilterDoesNotPersist(t *testing.T) {
	repo := &memRepo{}
	changes := 0
	s := newTestStore(t, repo, WithOnChange(func() { changes++ }))
	changes = 0

	s.SetFilter(task.FilterPending)

	assert.Zero(t, repo.saves)
	assert.Equal(t, 1, changes)
}

func TestStore_OnChangeFiresAfterMutations(t *testing.T) {
	ctx := context.Background()
	changes := 0
	s := newTestStore(t, &memRepo{}, WithOnChange(func() { changes++ }))
	changes = 0

	tk, _, err := s.Add(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, tk.ID, task.StatusCompleted))
	require.NoError(t, s.Delete(ctx, tk.ID))

	assert.Equal(t, 3, changes)
}

func TestStore_LoadReplacesList(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	s := newTestStore(t, repo)
	seed(t, s, "a")

	repo.saved = []task.Task{{ID: "x", Text: "from elsewhere", Status: task.StatusPending}}
	require.NoError(t, s.Load(ctx))

	got := s.Tasks()
	require.Len(t, got, 1)
	assert.Equal(t, "from elsewhere", got[0].Text)

	repo.loadErr = errors.New("boom")
	require.Error(t, s.Load(ctx))
	assert.Len(t, s.Tasks(), 1)
}

func TestStore_Lookup(t *testing.T) {
	s := New(&memRepo{saved: []task.Task{
		{ID: "abc123", Text: "a", Status: task.StatusPending},
		{ID: "abd456", Text: "b", Status: task.StatusPending},
	}})
	require.NoError(t, s.Load(context.Background()))

	got, err := s.Lookup("abc123")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Text)

	got, err = s.Lookup("abd")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Text)

	_, err = s.Lookup("ab")
	require.ErrorIs(t, err, task.ErrAmbiguous)

	_, err = s.Lookup("zzz")
	require.ErrorIs(t, err, task.ErrNotFound)

	_, err = s.Lookup("  ")
	require.ErrorIs(t, err, task.ErrNotFound)
}

func TestStore_TimestampLayout(t *testing.T) {
	s := newTestStore(t, &memRepo{}, WithTimestampLayout(time.RFC3339))
	tk := seed(t, s, "a")[0]

	_, err := time.Parse(time.RFC3339, tk.Timestamp)
	assert.NoError(t, err)
}
