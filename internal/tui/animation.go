package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/colonyops/tick/internal/tui/views/tasks"
	"github.com/colonyops/tick/pkg/kv"
)

const (
	animationInterval = 100 * time.Millisecond
	enterTicks        = 6
)

// animationTickMsg advances entrance cues.
type animationTickMsg struct{}

func scheduleAnimationTick() tea.Cmd {
	return tea.Tick(animationInterval, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// RowAnimation is the active cue for one task.
type RowAnimation struct {
	Cue       tasks.Cue
	TicksLeft int // entrance only; exit cues last until removed
	StartedAt time.Time
}

// AnimationStore tracks row cues by task ID.
type AnimationStore struct {
	animations *kv.Store[string, RowAnimation]
	ticksMax   int
}

var _ tasks.Cues = (*AnimationStore)(nil)

// NewAnimationStore creates a new animation store.
func NewAnimationStore(ticksMax int) *AnimationStore {
	return &AnimationStore{
		animations: kv.New[string, RowAnimation](),
		ticksMax:   ticksMax,
	}
}

// Get returns the animation for a task, or nil if none.
func (s *AnimationStore) Get(id string) *RowAnimation {
	anim, ok := s.animations.Get(id)
	if !ok || anim.Cue == tasks.CueNone {
		return nil
	}
	return &anim
}

// Cue implements tasks.Cues.
func (s *AnimationStore) Cue(id string) tasks.Cue {
	if anim := s.Get(id); anim != nil {
		return anim.Cue
	}
	return tasks.CueNone
}

// MarkEntering starts an entrance cue.
func (s *AnimationStore) MarkEntering(id string) {
	s.animations.Set(id, RowAnimation{
		Cue:       tasks.CueEntering,
		TicksLeft: s.ticksMax,
		StartedAt: time.Now(),
	})
}

// MarkExiting holds an exit cue until Remove is called.
func (s *AnimationStore) MarkExiting(id string) {
	s.animations.Set(id, RowAnimation{
		Cue:       tasks.CueExiting,
		StartedAt: time.Now(),
	})
}

// Exiting reports whether id has a pending deletion.
func (s *AnimationStore) Exiting(id string) bool {
	return s.Cue(id) == tasks.CueExiting
}

// Remove drops any cue for id.
func (s *AnimationStore) Remove(id string) {
	s.animations.Delete(id)
}

// Ticking reports whether any entrance cue still needs ticks.
func (s *AnimationStore) Ticking() bool {
	ticking := false
	s.animations.Range(func(_ string, anim RowAnimation) bool {
		ticking = anim.Cue == tasks.CueEntering && anim.TicksLeft > 0
		return !ticking
	})
	return ticking
}

// Tick decrements entrance cues and removes expired ones.
// Returns true if any animations were updated (for triggering rerender).
func (s *AnimationStore) Tick() bool {
	changed := false
	for _, id := range s.animations.Keys() {
		s.animations.Update(id, func(anim RowAnimation, ok bool) (RowAnimation, bool) {
			if !ok || anim.Cue != tasks.CueEntering || anim.TicksLeft <= 0 {
				return anim, ok
			}
			changed = true
			anim.TicksLeft--
			return anim, anim.TicksLeft > 0
		})
	}
	return changed
}

// Retain drops cues for IDs not in keep.
func (s *AnimationStore) Retain(keep func(id string) bool) {
	for _, id := range s.animations.Keys() {
		if !keep(id) {
			s.animations.Delete(id)
		}
	}
}

// Clear removes all animations.
func (s *AnimationStore) Clear() {
	s.animations.Clear()
}
