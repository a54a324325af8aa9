package logging

import "context"

type contextKey string

const (
	taskIDKey contextKey = "task_id"
	sourceKey contextKey = "source"
)

// Sources that originate store operations.
const (
	SourceTUI = "tui"
	SourceCLI = "cli"
)

// WithTaskID adds a task ID to the context.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskIDKey, taskID)
}

// WithSource records which surface (tui, cli) triggered an operation.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// GetTaskID retrieves the task ID from the context.
// Returns empty string if not present.
func GetTaskID(ctx context.Context) string {
	if id, ok := ctx.Value(taskIDKey).(string); ok {
		return id
	}
	return ""
}

// GetSource retrieves the operation source from the context.
func GetSource(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey).(string); ok {
		return s
	}
	return ""
}
