// Package store holds the client-side state stores: session identity,
// feature flags, payment configuration and derived course/chat view state.
//
// Stores are explicitly constructed with injected dependencies and owned by
// the app composition root. Each persisted store owns exactly one storage
// key and writes its full state through a persist.Container after every
// mutation.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mobilearn/appcore/internal/apperror"
	"github.com/mobilearn/appcore/internal/auth"
	"github.com/mobilearn/appcore/internal/backend"
	"github.com/mobilearn/appcore/internal/model"
	"github.com/mobilearn/appcore/internal/persist"
)

// SessionStore owns the authentication identity and its lifecycle.
//
// State machine: Unauthenticated <-> Authenticated. Login replaces the
// whole session on success and leaves it untouched on failure; Logout
// always lands on the unauthenticated default. Signup and ResetPassword
// never change session state.
type SessionStore struct {
	mu      sync.Mutex
	session model.Session

	api     backend.AuthAPI
	state   *persist.Container[model.Session]
	logger  *slog.Logger
	onToken func(token string)
	now     func() time.Time
}

// NewSessionStore creates a SessionStore. onToken, if non-nil, is invoked
// with the active token whenever it changes ("" on logout); the app uses
// it to keep the backend client's bearer credential current.
func NewSessionStore(
	api backend.AuthAPI,
	state *persist.Container[model.Session],
	logger *slog.Logger,
	onToken func(token string),
) *SessionStore {
	return &SessionStore{
		session: model.DefaultSession(),
		api:     api,
		state:   state,
		logger:  logger,
		onToken: onToken,
		now:     time.Now,
	}
}

// Current returns the session as of this call.
func (s *SessionStore) Current() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Restore rehydrates the persisted session at startup. A restored token
// that expired while the app was closed is discarded back to the
// unauthenticated default. Storage failures are logged and leave the store
// unauthenticated; they are returned so the caller can observe the
// degraded mode.
func (s *SessionStore) Restore(ctx context.Context) error {
	restored, err := s.state.Load(ctx, model.DefaultSession())
	if err != nil {
		s.logger.Warn("session restore degraded to in-memory default",
			slog.String("error", err.Error()),
		)
		return err
	}

	if restored.Authenticated() && auth.TokenExpired(restored.Token, s.now()) {
		s.logger.Info("discarding restored session with expired token",
			slog.String("username", restored.Username),
		)
		restored = model.DefaultSession()
	}

	s.mu.Lock()
	s.session = restored
	s.mu.Unlock()

	if s.onToken != nil {
		s.onToken(restored.Token)
	}
	return nil
}

// Signup sends a creation request to the authentication service. It never
// touches session state; the caller routes to a login or awaiting-approval
// screen on success.
func (s *SessionStore) Signup(ctx context.Context, username, email, password string, role model.Role) error {
	if err := signupLoginRole(role); err != nil {
		return err
	}
	return s.api.Signup(ctx, backend.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	})
}

// Login exchanges credentials for an identity and atomically replaces the
// session with the server's response. On any failure the prior session
// state is left exactly as it was.
func (s *SessionStore) Login(ctx context.Context, email, password string, role model.Role) (model.Role, error) {
	if err := signupLoginRole(role); err != nil {
		return "", err
	}

	resp, err := s.api.Login(ctx, backend.LoginRequest{
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return "", err
	}

	resolved, err := model.ParseRole(resp.Role)
	if err != nil {
		return "", apperror.Auth(fmt.Sprintf("login response carried unknown role %q", resp.Role))
	}

	next := model.Session{
		Username: resp.Username,
		Email:    email,
		Token:    resp.Token,
		Role:     resolved,
	}

	s.mu.Lock()
	s.session = next
	s.mu.Unlock()

	if s.onToken != nil {
		s.onToken(next.Token)
	}

	// A persist failure must not undo a successful login; the session
	// stays valid in memory for this run.
	if err := s.state.Save(ctx, next); err != nil {
		s.logger.Warn("session persisted state not written",
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("logged in",
		slog.String("username", next.Username),
		slog.String("role", next.Role.String()),
	)
	return resolved, nil
}

// Logout resets the session to the unauthenticated default. The in-memory
// transition always happens; a failed persist write is logged and returned
// as a storage condition the caller may ignore.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = model.DefaultSession()
	s.mu.Unlock()

	if s.onToken != nil {
		s.onToken("")
	}

	if err := s.state.Save(ctx, model.DefaultSession()); err != nil {
		s.logger.Warn("logout state not persisted",
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// ResetPassword sends a reset-token and new password to the backend and
// returns its textual confirmation. Session state is never touched.
func (s *SessionStore) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return s.api.ResetPassword(ctx, token, newPassword)
}

// signupLoginRole enforces that only member and instructor accounts go
// through signup and login; guests never authenticate and admin accounts
// are provisioned out of band.
func signupLoginRole(role model.Role) error {
	if role != model.RoleMember && role != model.RoleInstructor {
		return apperror.Auth(fmt.Sprintf("role %q cannot sign in", role))
	}
	return nil
}
