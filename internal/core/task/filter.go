package task

import (
	"fmt"
	"strings"
)

// Filter selects which tasks are visible. It is transient UI state and is
// never persisted.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterCancelled Filter = "cancelled"
)

// Filters returns all filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted, FilterCancelled}
}

// ParseFilter parses a filter name. The empty string means all.
func ParseFilter(v string) (Filter, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return FilterAll, nil
	}
	for _, f := range Filters() {
		if string(f) == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q: must be one of all, pending, completed, cancelled", v)
}

// Matches reports whether t is visible under f.
func (f Filter) Matches(t Task) bool {
	return f == FilterAll || f == "" || string(t.Status) == string(f)
}

// Next returns the filter after f in display order, wrapping around.
func (f Filter) Next() Filter {
	all := Filters()
	for i, cur := range all {
		if cur == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterAll
}

// Prev returns the filter before f in display order, wrapping around.
func (f Filter) Prev() Filter {
	all := Filters()
	for i, cur := range all {
		if cur == f {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return FilterAll
}

// Label returns the display label for the filter.
func (f Filter) Label() string {
	if f == "" {
		return "All"
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// Visible returns the tasks matching f, preserving list order.
func Visible(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// At resolves a position within the subset visible under f to the underlying
// task. Out-of-range positions report false.
func At(tasks []Task, f Filter, index int) (Task, bool) {
	if index < 0 {
		return Task{}, false
	}
	n := 0
	for _, t := range tasks {
		if !f.Matches(t) {
			continue
		}
		if n == index {
			return t, true
		}
		n++
	}
	return Task{}, false
}
