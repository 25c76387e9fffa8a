package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mobilearn/appcore/internal/model"
	"github.com/mobilearn/appcore/internal/persist"
)

// FeatureStore owns the administrative feature toggles. Flags are
// independent of each other; setting one has no ordering dependency on any
// other. Persisted under the admin-store key.
type FeatureStore struct {
	mu    sync.Mutex
	flags model.FeatureFlags

	state  *persist.Container[model.FeatureFlags]
	logger *slog.Logger
}

// NewFeatureStore creates a FeatureStore with all flags off.
func NewFeatureStore(state *persist.Container[model.FeatureFlags], logger *slog.Logger) *FeatureStore {
	return &FeatureStore{
		flags:  model.FeatureFlags{},
		state:  state,
		logger: logger,
	}
}

// Restore rehydrates persisted flags. On storage failure the store keeps
// its in-memory defaults and the error is returned for logging.
func (s *FeatureStore) Restore(ctx context.Context) error {
	flags, err := s.state.Load(ctx, model.FeatureFlags{})
	if err != nil {
		s.logger.Warn("feature flags restore degraded to defaults",
			slog.String("error", err.Error()),
		)
		return err
	}

	s.mu.Lock()
	s.flags = flags
	s.mu.Unlock()
	return nil
}

// Flag reads a toggle. Absent flags are false.
func (s *FeatureStore) Flag(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags[name]
}

// Flags returns a copy of the whole flag map.
func (s *FeatureStore) Flags() model.FeatureFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags.Clone()
}

// SetFlag updates a toggle and persists the full flag map. The in-memory
// update always takes effect; a failed write is returned for the caller to
// log or retry.
func (s *FeatureStore) SetFlag(ctx context.Context, name string, value bool) error {
	s.mu.Lock()
	s.flags[name] = value
	snapshot := s.flags.Clone()
	s.mu.Unlock()

	if err := s.state.Save(ctx, snapshot); err != nil {
		s.logger.Warn("feature flag not persisted",
			slog.String("flag", name),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
