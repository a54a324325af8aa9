package task

import "context"

// StorageKey is the single key under which the task list is persisted.
const StorageKey = "tasks"

// Repository persists the whole task list as one value.
type Repository interface {
	// Load returns the stored list. A missing or malformed value yields an
	// empty list and a nil error; only backend failures are returned.
	Load(ctx context.Context) ([]Task, error)

	// Save overwrites the stored value with the full list.
	Save(ctx context.Context, tasks []Task) error
}

// Watcher is implemented by repositories that can report writes made by
// other processes. Each receive on the channel means the stored list may
// have changed. The channel is closed when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
