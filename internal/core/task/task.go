// Package task defines the task domain model: tasks, their status lifecycle,
// and the filters used to select which tasks are displayed.
package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no task matches the given ID.
	ErrNotFound = errors.New("task not found")
	// ErrTerminal is returned when changing the status of a completed or cancelled task.
	ErrTerminal = errors.New("task status is final")
	// ErrInvalidStatus is returned for a status that is not a valid transition target.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrAmbiguous is returned when an ID prefix matches more than one task.
	ErrAmbiguous = errors.New("ambiguous task reference")
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether a task in status s may move to next.
// Only pending tasks move, and only to completed or cancelled.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w %q: must be one of pending, completed, cancelled", ErrInvalidStatus, v)
	}
	return s, nil
}

// Task is a single to-do item.
//
// Text and Timestamp are set once at creation; only Status changes afterwards.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Status    Status `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Valid reports whether the task can be stored: non-empty text and a known status.
func (t Task) Valid() bool {
	return strings.TrimSpace(t.Text) != "" && t.Status.IsValid()
}

// ShortID returns the first eight characters of the ID for display.
func (t Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// Counts tallies tasks per status.
type Counts struct {
	Pending   int
	Completed int
	Cancelled int
}

// Total returns the number of tasks counted.
func (c Counts) Total() int {
	return c.Pending + c.Completed + c.Cancelled
}

// For returns the count matching a filter.
func (c Counts) For(f Filter) int {
	switch f {
	case FilterPending:
		return c.Pending
	case FilterCompleted:
		return c.Completed
	case FilterCancelled:
		return c.Cancelled
	default:
		return c.Total()
	}
}

// CountAll tallies the statuses of tasks.
func CountAll(tasks []Task) Counts {
	var c Counts
	for _, t := range tasks {
		switch t.Status {
		case StatusPending:
			c.Pending++
		case StatusCompleted:
			c.Completed++
		case StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

// IndexOf returns the position of the task with the given ID, or -1.
func IndexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of tasks that shares no backing array with the input.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
