package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/tick/internal/core/kv"
	"github.com/rs/zerolog"
)

const (
	uiNamespace = "ui"
	uiStateKey  = "state"

	// DefaultUIStateTTL is how long remembered view settings survive without
	// another TUI session.
	DefaultUIStateTTL = 30 * 24 * time.Hour
)

// UIState is the view state restored when the TUI starts again. The
// active filter is not part of it and always starts at all.
type UIState struct {
	Theme string `json:"theme"`
}

// UIStateStore persists UIState with an expiry when the backend supports one.
type UIStateStore struct {
	typed *kv.TypedKV[UIState]
	ttl   time.Duration
	log   zerolog.Logger
}

// NewUIStateStore creates a store under the "ui" namespace. A non-positive
// ttl stores without expiry.
func NewUIStateStore(store kv.KV, ttl time.Duration, log zerolog.Logger) *UIStateStore {
	return &UIStateStore{
		typed: kv.Scoped[UIState](store, uiNamespace),
		ttl:   ttl,
		log:   log.With().Str("cmp", "uistate").Logger(),
	}
}

// Load returns the remembered state. ok is false when nothing usable is
// stored; read failures are logged and treated the same way.
func (s *UIStateStore) Load(ctx context.Context) (state UIState, ok bool) {
	state, err := s.typed.Get(ctx, uiStateKey)
	if err != nil {
		if !IsNotFoundError(err) {
			s.log.Warn().Err(err).Msg("ignoring stored ui state")
		}
		return UIState{}, false
	}
	return state, true
}

// Save stores state, falling back to no expiry on backends without TTLs.
func (s *UIStateStore) Save(ctx context.Context, state UIState) error {
	if s.ttl > 0 {
		err := s.typed.SetTTL(ctx, uiStateKey, state, s.ttl)
		if err == nil {
			return nil
		}
		if !errors.Is(err, kv.ErrTTLUnsupported) {
			return fmt.Errorf("save ui state: %w", err)
		}
	}

	if err := s.typed.Set(ctx, uiStateKey, state); err != nil {
		return fmt.Errorf("save ui state: %w", err)
	}
	return nil
}
