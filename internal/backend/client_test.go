package backend_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilearn/appcore/internal/apperror"
	"github.com/mobilearn/appcore/internal/backend"
	"github.com/mobilearn/appcore/internal/mockbackend"
	"github.com/mobilearn/appcore/internal/model"
)

const testSecret = "mockbackend-secret-16-chars!!"

// newTestEnv mounts a seeded mock backend on an httptest server and
// returns a client pointed at it.
func newTestEnv(t *testing.T) (*backend.Client, *mockbackend.Server) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	mock, err := mockbackend.New(logger, testSecret)
	require.NoError(t, err)

	srv := httptest.NewServer(mock)
	t.Cleanup(srv.Close)

	return backend.NewClient(srv.URL, "v1", 5*time.Second), mock
}

func login(t *testing.T, client *backend.Client, mock *mockbackend.Server) *backend.LoginResponse {
	t.Helper()
	require.NoError(t, mock.SeedAccount("A", "a@b.com", "x", model.RoleMember))

	resp, err := client.Login(context.Background(), backend.LoginRequest{
		Email:    "a@b.com",
		Password: "x",
		Role:     model.RoleMember,
	})
	require.NoError(t, err)
	client.SetToken(resp.Token)
	return resp
}

func TestLogin_EndToEnd(t *testing.T) {
	client, mock := newTestEnv(t)

	resp := login(t, client, mock)
	assert.Equal(t, "A", resp.Username)
	assert.Equal(t, "member", resp.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPasswordCarriesServerMessage(t *testing.T) {
	client, mock := newTestEnv(t)
	require.NoError(t, mock.SeedAccount("A", "a@b.com", "x", model.RoleMember))

	_, err := client.Login(context.Background(), backend.LoginRequest{
		Email:    "a@b.com",
		Password: "wrong",
		Role:     model.RoleMember,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrAuth))
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestLogin_RoleMismatchIsAuthFailure(t *testing.T) {
	client, mock := newTestEnv(t)
	require.NoError(t, mock.SeedAccount("A", "a@b.com", "x", model.RoleMember))

	_, err := client.Login(context.Background(), backend.LoginRequest{
		Email:    "a@b.com",
		Password: "x",
		Role:     model.RoleInstructor,
	})
	assert.True(t, errors.Is(err, apperror.ErrAuth))
}

func TestSignup_ThenLogin(t *testing.T) {
	client, _ := newTestEnv(t)
	ctx := context.Background()

	err := client.Signup(ctx, backend.SignupRequest{
		Username: "B",
		Email:    "b@c.com",
		Password: "pw",
		Role:     model.RoleInstructor,
	})
	require.NoError(t, err)

	resp, err := client.Login(ctx, backend.LoginRequest{
		Email:    "b@c.com",
		Password: "pw",
		Role:     model.RoleInstructor,
	})
	require.NoError(t, err)
	assert.Equal(t, "B", resp.Username)
	assert.Equal(t, "instructor", resp.Role)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	client, mock := newTestEnv(t)
	require.NoError(t, mock.SeedAccount("A", "a@b.com", "x", model.RoleMember))

	err := client.Signup(context.Background(), backend.SignupRequest{
		Username: "A2",
		Email:    "a@b.com",
		Password: "y",
		Role:     model.RoleMember,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrAuth))
	assert.Equal(t, "email already registered", err.Error())
}

func TestResetPassword_SentinelBody(t *testing.T) {
	client, mock := newTestEnv(t)
	mock.SeedResetToken("abc123")

	got, err := client.ResetPassword(context.Background(), "abc123", "new-password")
	require.NoError(t, err)
	assert.Equal(t, backend.ResetSuccessBody, got)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	client, _ := newTestEnv(t)

	_, err := client.ResetPassword(context.Background(), "nope", "new-password")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrAuth))
}

func TestFavourites_ListAddRemove(t *testing.T) {
	client, mock := newTestEnv(t)
	mock.SeedFavourites("c1")
	login(t, client, mock)
	ctx := context.Background()

	ids, err := client.FavouriteCourses(ctx, "channel-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids)

	require.NoError(t, client.AddFavourite(ctx, "c2"))
	ids, err = client.FavouriteCourses(ctx, "channel-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, ids)

	require.NoError(t, client.RemoveFavourite(ctx, "c1"))
	ids, err = client.FavouriteCourses(ctx, "channel-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, ids)
}

func TestFavourites_RequireToken(t *testing.T) {
	client, _ := newTestEnv(t)

	_, err := client.FavouriteCourses(context.Background(), "channel-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNetwork))
}

func TestChatDetails(t *testing.T) {
	client, mock := newTestEnv(t)
	mock.SeedChat(model.RoleMember, "42", model.ChatDetail{
		ChatName:       "Go study group",
		ChatPictureURL: "https://cdn.mobilearn.app/chats/42.png",
		Participants:   []model.Participant{{ID: "p1", Name: "A"}},
	})
	login(t, client, mock)

	detail, err := client.ChatDetails(context.Background(), model.RoleMember, "42")
	require.NoError(t, err)
	assert.Equal(t, "Go study group", detail.ChatName)
	assert.Len(t, detail.Participants, 1)
}

func TestTimeoutIsDistinctFromNetworkFailure(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	client := backend.NewClient(slow.URL, "v1", 20*time.Millisecond)
	_, err := client.Login(context.Background(), backend.LoginRequest{
		Email:    "a@b.com",
		Password: "x",
		Role:     model.RoleMember,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrTimeout), "got %v", err)
}

func TestUnreachableBackendIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	client := backend.NewClient(srv.URL, "v1", time.Second)
	_, err := client.Login(context.Background(), backend.LoginRequest{
		Email:    "a@b.com",
		Password: "x",
		Role:     model.RoleMember,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNetwork), "got %v", err)
}
