package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mobilearn/appcore/internal/backend"
	"github.com/mobilearn/appcore/internal/model"
)

// CourseStore caches backend-derived view state for the active channel:
// the favorite-course set and chat details. Nothing here is persisted;
// the server is authoritative and the cache is rebuilt on channel change.
//
// Favorite toggles are optimistic: the local set changes immediately so
// the screen reflects the tap, then the backend call confirms it. If the
// call fails the pre-toggle snapshot is restored, so the cache never
// silently diverges from server truth.
type CourseStore struct {
	mu sync.Mutex

	channelID  string
	favourites map[string]struct{}
	chats      map[chatKey]*model.ChatDetail

	api    backend.CourseAPI
	logger *slog.Logger
}

type chatKey struct {
	role   model.Role
	chatID string
}

// NewCourseStore creates an empty CourseStore.
func NewCourseStore(api backend.CourseAPI, logger *slog.Logger) *CourseStore {
	return &CourseStore{
		favourites: make(map[string]struct{}),
		chats:      make(map[chatKey]*model.ChatDetail),
		api:        api,
		logger:     logger,
	}
}

// FavouriteCourses fetches the authoritative favorite set for channelID
// and replaces the local cache. Repeated calls with the same channel
// converge to the same set. On failure the stale cached copy is returned
// together with the error, so the screen can keep showing something while
// the failure stays observable.
func (s *CourseStore) FavouriteCourses(ctx context.Context, channelID string) ([]string, error) {
	ids, err := s.api.FavouriteCourses(ctx, channelID)
	if err != nil {
		s.logger.Warn("favourites refresh failed, serving cached set",
			slog.String("channelId", channelID),
			slog.String("error", err.Error()),
		)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.favouriteSlice(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelID = channelID
	s.favourites = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.favourites[id] = struct{}{}
	}
	return s.favouriteSlice(), nil
}

// AddFavouriteCourse optimistically adds courseID to the local set, then
// confirms with the backend. Idempotent: adding a present id is a no-op
// locally and on the server.
func (s *CourseStore) AddFavouriteCourse(ctx context.Context, courseID string) error {
	return s.toggle(ctx, courseID, true)
}

// RemoveFavouriteCourse is the removal counterpart of AddFavouriteCourse.
func (s *CourseStore) RemoveFavouriteCourse(ctx context.Context, courseID string) error {
	return s.toggle(ctx, courseID, false)
}

// toggle holds the store lock across the backend call. That serializes
// concurrent toggles on the same store so the final local state matches
// the last submitted operation's intent.
func (s *CourseStore) toggle(ctx context.Context, courseID string, add bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.favourites[courseID]
	if add {
		s.favourites[courseID] = struct{}{}
	} else {
		delete(s.favourites, courseID)
	}

	var err error
	if add {
		err = s.api.AddFavourite(ctx, courseID)
	} else {
		err = s.api.RemoveFavourite(ctx, courseID)
	}
	if err != nil {
		// Roll back to the pre-optimistic state.
		if present {
			s.favourites[courseID] = struct{}{}
		} else {
			delete(s.favourites, courseID)
		}
		s.logger.Warn("favourite toggle rolled back",
			slog.String("courseId", courseID),
			slog.Bool("add", add),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Favourites returns the cached favorite set, sorted for stable display.
func (s *CourseStore) Favourites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favouriteSlice()
}

func (s *CourseStore) favouriteSlice() []string {
	out := make([]string, 0, len(s.favourites))
	for id := range s.favourites {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ChatDetails returns chat metadata for the given role and chat, fetching
// on first use and caching for the current screen's lifetime.
func (s *CourseStore) ChatDetails(ctx context.Context, role model.Role, chatID string) (*model.ChatDetail, error) {
	key := chatKey{role: role, chatID: chatID}

	s.mu.Lock()
	if detail, ok := s.chats[key]; ok {
		s.mu.Unlock()
		return detail, nil
	}
	s.mu.Unlock()

	detail, err := s.api.ChatDetails(ctx, role, chatID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.chats[key] = detail
	s.mu.Unlock()
	return detail, nil
}

// ClearChatCache drops cached chat details. Called on navigation away
// from the chat screen.
func (s *CourseStore) ClearChatCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats = make(map[chatKey]*model.ChatDetail)
}
