// Package mockbackend is an in-process implementation of the platform API
// contract the client core consumes. It backs integration tests (mounted
// on an httptest server) and local development (cmd/mockbackend).
//
// State is in-memory and intentionally simple: accounts with bcrypt-hashed
// passwords, one favorite-course set served for every channel (channel
// scoping is the real backend's concern), canned chat details, and a table
// of valid reset tokens.
package mockbackend

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"github.com/mobilearn/appcore/internal/auth"
	"github.com/mobilearn/appcore/internal/model"
)

// tokenLifetime is how long issued session tokens stay valid.
const tokenLifetime = 24 * time.Hour

type account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         model.Role
}

type chatKey struct {
	role   model.Role
	chatID string
}

// Server holds the mock state and the router serving it.
type Server struct {
	router    *chi.Mux
	logger    *slog.Logger
	signer    *auth.Signer
	passwords *PasswordService

	mu          sync.Mutex
	accounts    map[string]*account // keyed by email
	favourites  map[string]struct{}
	chats       map[chatKey]model.ChatDetail
	resetTokens map[string]struct{}
}

// New creates a mock backend signing tokens with the given secret.
func New(logger *slog.Logger, secret string) (*Server, error) {
	signer, err := auth.NewSigner(secret)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		signer:      signer,
		passwords:   NewPasswordService(),
		accounts:    make(map[string]*account),
		favourites:  make(map[string]struct{}),
		chats:       make(map[chatKey]model.ChatDetail),
		resetTokens: make(map[string]struct{}),
	}
	s.routes()
	return s, nil
}

// ServeHTTP makes the Server mountable on httptest and net/http alike.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Route("/auth/v1", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/reset-password", s.handleResetPassword)
	})

	s.router.Route("/courses/v1", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/favourites", s.handleListFavourites)
		r.Post("/favourites/{courseID}", s.handleAddFavourite)
		r.Delete("/favourites/{courseID}", s.handleRemoveFavourite)
	})

	s.router.Route("/chats/v1", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/{role}/{chatID}", s.handleChatDetails)
	})
}

// SeedAccount registers an account with a hashed password. Used by tests
// and by cmd/mockbackend to provision fixture users.
func (s *Server) SeedAccount(username, email, password string, role model.Role) error {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = &account{
		ID:           xid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	return nil
}

// SeedResetToken marks a password-reset token as valid.
func (s *Server) SeedResetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetTokens[token] = struct{}{}
}

// GenerateResetToken mints and registers a fresh reset token, the way the
// real backend does when mailing a reset link.
func (s *Server) GenerateResetToken() string {
	token := xid.New().String()
	s.SeedResetToken(token)
	return token
}

// SeedFavourites pre-populates the favorite-course set.
func (s *Server) SeedFavourites(courseIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range courseIDs {
		s.favourites[id] = struct{}{}
	}
}

// SeedChat registers chat metadata for a (role, chat) pair.
func (s *Server) SeedChat(role model.Role, chatID string, detail model.ChatDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chatKey{role: role, chatID: chatID}] = detail
}

// requireToken rejects course/chat calls without a valid bearer token.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := s.signer.Verify(header[len(prefix):]); err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
