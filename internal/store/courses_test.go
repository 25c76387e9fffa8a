package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mobilearn/appcore/internal/apperror"
	"github.com/mobilearn/appcore/internal/model"
)

// fakeCourseAPI is an in-memory implementation of backend.CourseAPI.
type fakeCourseAPI struct {
	serverFavs map[string]struct{}
	favsErr    error
	toggleErr  error

	chat        *model.ChatDetail
	chatErr     error
	chatCalls   int
	toggleCalls int
}

func newFakeCourseAPI(ids ...string) *fakeCourseAPI {
	favs := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		favs[id] = struct{}{}
	}
	return &fakeCourseAPI{serverFavs: favs}
}

func (f *fakeCourseAPI) FavouriteCourses(ctx context.Context, channelID string) ([]string, error) {
	if f.favsErr != nil {
		return nil, f.favsErr
	}
	out := make([]string, 0, len(f.serverFavs))
	for id := range f.serverFavs {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeCourseAPI) AddFavourite(ctx context.Context, courseID string) error {
	f.toggleCalls++
	if f.toggleErr != nil {
		return f.toggleErr
	}
	f.serverFavs[courseID] = struct{}{}
	return nil
}

func (f *fakeCourseAPI) RemoveFavourite(ctx context.Context, courseID string) error {
	f.toggleCalls++
	if f.toggleErr != nil {
		return f.toggleErr
	}
	delete(f.serverFavs, courseID)
	return nil
}

func (f *fakeCourseAPI) ChatDetails(ctx context.Context, role model.Role, chatID string) (*model.ChatDetail, error) {
	f.chatCalls++
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chat, nil
}

func newTestCourseStore(api *fakeCourseAPI) *CourseStore {
	return NewCourseStore(api, testLogger())
}

func TestFavouriteCourses_ReplacesCache(t *testing.T) {
	api := newFakeCourseAPI("c1", "c2")
	s := newTestCourseStore(api)
	ctx := context.Background()

	got, err := s.FavouriteCourses(ctx, "channel-1")
	if err != nil {
		t.Fatalf("FavouriteCourses() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Errorf("FavouriteCourses() = %v, want [c1 c2]", got)
	}

	// Repeated calls with the same channel converge to the same set.
	again, err := s.FavouriteCourses(ctx, "channel-1")
	if err != nil {
		t.Fatalf("second FavouriteCourses() error = %v", err)
	}
	if !reflect.DeepEqual(again, got) {
		t.Errorf("second FavouriteCourses() = %v, want %v", again, got)
	}
}

func TestFavouriteCourses_FailureServesStaleCache(t *testing.T) {
	api := newFakeCourseAPI("c1")
	s := newTestCourseStore(api)
	ctx := context.Background()

	if _, err := s.FavouriteCourses(ctx, "channel-1"); err != nil {
		t.Fatalf("FavouriteCourses() error = %v", err)
	}

	api.favsErr = apperror.Network(errors.New("connection refused"))
	got, err := s.FavouriteCourses(ctx, "channel-1")
	if !errors.Is(err, apperror.ErrNetwork) {
		t.Fatalf("FavouriteCourses() error = %v, want ErrNetwork", err)
	}
	if !reflect.DeepEqual(got, []string{"c1"}) {
		t.Errorf("FavouriteCourses() on failure = %v, want stale [c1]", got)
	}
}

func TestAddFavouriteCourse_Idempotent(t *testing.T) {
	api := newFakeCourseAPI()
	s := newTestCourseStore(api)
	ctx := context.Background()

	if err := s.AddFavouriteCourse(ctx, "c1"); err != nil {
		t.Fatalf("AddFavouriteCourse() error = %v", err)
	}
	once := s.Favourites()

	if err := s.AddFavouriteCourse(ctx, "c1"); err != nil {
		t.Fatalf("second AddFavouriteCourse() error = %v", err)
	}
	twice := s.Favourites()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("favourites after duplicate add = %v, want %v", twice, once)
	}
}

func TestRemoveFavouriteCourse_Idempotent(t *testing.T) {
	api := newFakeCourseAPI("c1")
	s := newTestCourseStore(api)
	ctx := context.Background()

	if _, err := s.FavouriteCourses(ctx, "channel-1"); err != nil {
		t.Fatalf("FavouriteCourses() error = %v", err)
	}

	if err := s.RemoveFavouriteCourse(ctx, "c1"); err != nil {
		t.Fatalf("RemoveFavouriteCourse() error = %v", err)
	}
	if err := s.RemoveFavouriteCourse(ctx, "c1"); err != nil {
		t.Fatalf("second RemoveFavouriteCourse() error = %v", err)
	}

	if got := s.Favourites(); len(got) != 0 {
		t.Errorf("Favourites() = %v, want empty", got)
	}
}

func TestToggle_RollbackOnBackendFailure(t *testing.T) {
	api := newFakeCourseAPI("c1")
	s := newTestCourseStore(api)
	ctx := context.Background()

	if _, err := s.FavouriteCourses(ctx, "channel-1"); err != nil {
		t.Fatalf("FavouriteCourses() error = %v", err)
	}
	before := s.Favourites()

	api.toggleErr = apperror.Network(errors.New("connection reset"))

	if err := s.AddFavouriteCourse(ctx, "c2"); !errors.Is(err, apperror.ErrNetwork) {
		t.Fatalf("AddFavouriteCourse() error = %v, want ErrNetwork", err)
	}
	if got := s.Favourites(); !reflect.DeepEqual(got, before) {
		t.Errorf("Favourites() after failed add = %v, want %v", got, before)
	}

	if err := s.RemoveFavouriteCourse(ctx, "c1"); !errors.Is(err, apperror.ErrNetwork) {
		t.Fatalf("RemoveFavouriteCourse() error = %v, want ErrNetwork", err)
	}
	if got := s.Favourites(); !reflect.DeepEqual(got, before) {
		t.Errorf("Favourites() after failed remove = %v, want %v", got, before)
	}
}

func TestChatDetails_CachesPerRoleAndChat(t *testing.T) {
	api := newFakeCourseAPI()
	api.chat = &model.ChatDetail{
		ChatName:       "Go study group",
		ChatPictureURL: "https://cdn.mobilearn.app/chats/42.png",
		Participants:   []model.Participant{{ID: "p1", Name: "A"}},
	}
	s := newTestCourseStore(api)
	ctx := context.Background()

	first, err := s.ChatDetails(ctx, model.RoleMember, "42")
	if err != nil {
		t.Fatalf("ChatDetails() error = %v", err)
	}
	second, err := s.ChatDetails(ctx, model.RoleMember, "42")
	if err != nil {
		t.Fatalf("second ChatDetails() error = %v", err)
	}

	if api.chatCalls != 1 {
		t.Errorf("backend chat calls = %d, want 1 (second read served from cache)", api.chatCalls)
	}
	if first != second {
		t.Error("ChatDetails() returned different values for the same key")
	}

	// A different role is a different cache key.
	if _, err := s.ChatDetails(ctx, model.RoleInstructor, "42"); err != nil {
		t.Fatalf("ChatDetails(instructor) error = %v", err)
	}
	if api.chatCalls != 2 {
		t.Errorf("backend chat calls = %d, want 2", api.chatCalls)
	}
}

func TestClearChatCache(t *testing.T) {
	api := newFakeCourseAPI()
	api.chat = &model.ChatDetail{ChatName: "x"}
	s := newTestCourseStore(api)
	ctx := context.Background()

	if _, err := s.ChatDetails(ctx, model.RoleMember, "42"); err != nil {
		t.Fatalf("ChatDetails() error = %v", err)
	}
	s.ClearChatCache()
	if _, err := s.ChatDetails(ctx, model.RoleMember, "42"); err != nil {
		t.Fatalf("ChatDetails() after clear error = %v", err)
	}

	if api.chatCalls != 2 {
		t.Errorf("backend chat calls = %d, want 2 after cache clear", api.chatCalls)
	}
}

func TestChatDetails_PropagatesFailure(t *testing.T) {
	api := newFakeCourseAPI()
	api.chatErr = apperror.Timeout(errors.New("deadline exceeded"))
	s := newTestCourseStore(api)

	_, err := s.ChatDetails(context.Background(), model.RoleMember, "42")
	if !errors.Is(err, apperror.ErrTimeout) {
		t.Fatalf("ChatDetails() error = %v, want ErrTimeout", err)
	}
}
