package task

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a new stable task identifier.
func NewID() string {
	return uuid.NewString()
}

// Encode serializes the full list. A nil list encodes as an empty array.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a stored list. The whole value is rejected if it is not a
// JSON array of tasks or if any task has empty text or an unknown status.
// Tasks stored without an ID are assigned one.
func Decode(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	for i := range tasks {
		if !tasks[i].Valid() {
			return nil, fmt.Errorf("decode tasks: entry %d: empty text or unknown status %q", i, tasks[i].Status)
		}
		if tasks[i].ID == "" {
			tasks[i].ID = NewID()
		}
	}

	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}
