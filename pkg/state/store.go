package state

import (
	"context"
	"errors"
	"sync"

	"github.com/Sternrassler/dex-explorer/pkg/logging"
	"github.com/Sternrassler/dex-explorer/pkg/prefs"
	"github.com/Sternrassler/dex-explorer/pkg/query"
	"github.com/rs/zerolog"
)

// Persisted theme entry.
const (
	ThemeKey   = "theme"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Store is the single mutable holder of State.
type Store struct {
	mu     sync.RWMutex
	state  State
	prefs  prefs.Store
	logger zerolog.Logger
}

// NewStore reads the persisted theme once and returns a store in the initial
// state. A missing or unreadable theme means dark mode.
func NewStore(ctx context.Context, p prefs.Store) *Store {
	s := &Store{
		prefs:  p,
		logger: logging.NewLogger("state"),
	}
	s.state = Initial(s.loadDarkMode(ctx))
	return s
}

func (s *Store) loadDarkMode(ctx context.Context) bool {
	if s.prefs == nil {
		return true
	}

	theme, err := s.prefs.Get(ctx, ThemeKey)
	switch {
	case errors.Is(err, prefs.ErrNotFound):
		return true
	case err != nil:
		s.logger.Warn().Err(err).Msg("Theme preference unreadable, using dark")
		return true
	case theme == ThemeLight:
		return false
	case theme == ThemeDark:
		return true
	default:
		s.logger.Warn().Str("theme", theme).Msg("Unknown theme preference, using dark")
		return true
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Criteria returns the current query criteria.
func (s *Store) Criteria() query.Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Criteria()
}

// Dispatch applies a and returns the new state. Toggling dark mode also
// persists the theme; a persistence failure is returned but the in-memory
// toggle stands.
func (s *Store) Dispatch(ctx context.Context, a Action) (State, error) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state.clone()
	s.mu.Unlock()

	s.logger.Debug().Interface("action", a).Int("page", next.Page).Msg("State updated")

	if _, ok := a.(ToggleDarkMode); ok && s.prefs != nil {
		theme := ThemeLight
		if next.DarkMode {
			theme = ThemeDark
		}
		if err := s.prefs.Set(ctx, ThemeKey, theme); err != nil {
			s.logger.Warn().Err(err).Str("theme", theme).Msg("Failed to persist theme")
			return next, err
		}
		s.logger.Info().Str("theme", theme).Msg("Theme changed")
	}
	return next, nil
}
