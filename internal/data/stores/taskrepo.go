package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/tick/internal/core/kv"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/rs/zerolog"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	saveRetries         = 3
	saveRetryWait       = 50 * time.Millisecond
)

// KeyWatcher reports external writes to a single key.
type KeyWatcher interface {
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}

// updateStamper reports a key's last write time without reading its value.
type updateStamper interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// TaskRepository implements task.Repository over any kv.KV backend. The
// whole list is stored as one JSON array under task.StorageKey.
type TaskRepository struct {
	store        kv.KV
	typed        *kv.TypedKV[[]task.Task]
	log          zerolog.Logger
	keyWatcher   KeyWatcher
	pollInterval time.Duration
}

var (
	_ task.Repository = (*TaskRepository)(nil)
	_ task.Watcher    = (*TaskRepository)(nil)
)

// TaskRepositoryOption configures a TaskRepository.
type TaskRepositoryOption func(*TaskRepository)

// WithKeyWatcher makes Watch delegate to w instead of polling.
func WithKeyWatcher(w KeyWatcher) TaskRepositoryOption {
	return func(r *TaskRepository) {
		r.keyWatcher = w
	}
}

// WithPollInterval sets how often Watch checks the stored value's update time.
func WithPollInterval(d time.Duration) TaskRepositoryOption {
	return func(r *TaskRepository) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

// NewTaskRepository creates a repository backed by store.
func NewTaskRepository(store kv.KV, log zerolog.Logger, opts ...TaskRepositoryOption) *TaskRepository {
	r := &TaskRepository{
		store:        store,
		typed:        kv.Typed[[]task.Task](store),
		log:          log,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load returns the stored list. Missing or malformed data is treated as an
// empty list.
func (r *TaskRepository) Load(ctx context.Context) ([]task.Task, error) {
	entry, err := r.typed.Raw(ctx, task.StorageKey)
	if err != nil {
		if IsNotFoundError(err) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	tasks, err := task.Decode(entry.Value)
	if err != nil {
		r.log.Warn().Err(err).Str("key", task.StorageKey).Msg("ignoring malformed stored tasks")
		return []task.Task{}, nil
	}

	return tasks, nil
}

// Save overwrites the stored list. SQLITE_BUSY is retried a few times.
func (r *TaskRepository) Save(ctx context.Context, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}

	var err error
	wait := saveRetryWait
	for i := 0; i < saveRetries; i++ {
		err = r.typed.Set(ctx, task.StorageKey, tasks)
		if err == nil || !IsBusyError(err) {
			break
		}

		r.log.Debug().Int("attempt", i+1).Msg("database busy, retrying save")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}

	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Watch signals when the stored list changes. Without a KeyWatcher it polls
// the entry's update time.
func (r *TaskRepository) Watch(ctx context.Context) (<-chan struct{}, error) {
	if r.keyWatcher != nil {
		return r.keyWatcher.Watch(ctx, r.typed.Key(task.StorageKey))
	}

	last, err := r.updatedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("watch tasks: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)

		ticker := time.NewTicker(r.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, err := r.updatedAt(ctx)
				if err != nil {
					if ctx.Err() == nil {
						r.log.Debug().Err(err).Msg("poll tasks update time")
					}
					continue
				}
				if current.Equal(last) {
					continue
				}
				last = current

				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}

// updatedAt returns the zero time when nothing is stored.
func (r *TaskRepository) updatedAt(ctx context.Context) (time.Time, error) {
	if st, ok := r.store.(updateStamper); ok {
		at, err := st.UpdatedAt(ctx, r.typed.Key(task.StorageKey))
		if IsNotFoundError(err) {
			return time.Time{}, nil
		}
		return at, err
	}

	entry, err := r.typed.Raw(ctx, task.StorageKey)
	if err != nil {
		if IsNotFoundError(err) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return entry.UpdatedAt, nil
}
