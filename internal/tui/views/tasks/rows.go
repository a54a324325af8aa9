// Package tasks projects the task list into renderable rows.
package tasks

import (
	"github.com/colonyops/tick/internal/core/task"
)

// Cue marks a row for a transient visual treatment.
type Cue int

const (
	CueNone     Cue = iota
	CueEntering     // created this session, shown briefly highlighted
	CueExiting      // deletion scheduled, shown until removal fires
)

// Cues reports the cue for a task ID.
type Cues interface {
	Cue(id string) Cue
}

// ActionKind identifies a per-row action.
type ActionKind int

const (
	ActionComplete ActionKind = iota
	ActionCancel
	ActionDelete
)

// Action is an affordance bound to one task.
type Action struct {
	Kind    ActionKind
	Key     string
	Label   string
	TaskID  string
	Enabled bool
}

// Status returns the status the action moves its task to. Delete has none.
func (a Action) Status() (task.Status, bool) {
	switch a.Kind {
	case ActionComplete:
		return task.StatusCompleted, true
	case ActionCancel:
		return task.StatusCancelled, true
	default:
		return "", false
	}
}

// Row is one visible task.
type Row struct {
	Index   int // position within the visible subset
	Task    task.Task
	Cue     Cue
	Actions []Action
}

// Rows returns one row per task matching f, in list order. cues may be nil.
func Rows(tasks []task.Task, f task.Filter, cues Cues) []Row {
	visible := task.Visible(tasks, f)
	rows := make([]Row, 0, len(visible))

	for i, t := range visible {
		cue := CueNone
		if cues != nil {
			cue = cues.Cue(t.ID)
		}

		rows = append(rows, Row{
			Index:   i,
			Task:    t,
			Cue:     cue,
			Actions: actionsFor(t, cue),
		})
	}

	return rows
}

func actionsFor(t task.Task, cue Cue) []Action {
	live := cue != CueExiting
	open := live && !t.Status.IsTerminal()

	return []Action{
		{Kind: ActionComplete, Key: "c", Label: "complete", TaskID: t.ID, Enabled: open},
		{Kind: ActionCancel, Key: "x", Label: "cancel", TaskID: t.ID, Enabled: open},
		{Kind: ActionDelete, Key: "d", Label: "delete", TaskID: t.ID, Enabled: live},
	}
}
