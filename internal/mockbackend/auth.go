package mockbackend

import (
	"encoding/json"
	"net/http"

	"github.com/rs/xid"

	"github.com/mobilearn/appcore/internal/backend"
	"github.com/mobilearn/appcore/internal/model"
)

// handleSignup registers a new member or instructor account.
//
// POST /auth/v1/signup  {username, email, password, role} → 200 {message}
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req backend.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if req.Role != model.RoleMember && req.Role != model.RoleInstructor {
		writeMessage(w, http.StatusBadRequest, "role must be member or instructor")
		return
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeMessage(w, http.StatusConflict, "email already registered")
		return
	}
	s.accounts[req.Email] = &account{
		ID:           xid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	s.logger.Info("account created",
		"email", req.Email,
		"role", req.Role.String(),
	)
	writeMessage(w, http.StatusOK, "account created")
}

// handleLogin verifies credentials and issues a session token.
//
// POST /auth/v1/login  {email, password, role} → 200 {username, token, role}
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req backend.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	s.mu.Unlock()

	// The same message for a missing account and a wrong password, so
	// the endpoint does not leak which emails are registered.
	if !ok || acct.Role != req.Role || s.passwords.Verify(acct.PasswordHash, req.Password) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.signer.Sign(acct.Email, tokenLifetime)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, backend.LoginResponse{
		Username: acct.Username,
		Token:    token,
		Role:     acct.Role.String(),
	})
}

// handleResetPassword consumes a reset token and sets the new password.
// The success body is the exact plain-text sentinel the client compares
// against.
//
// POST /auth/v1/reset-password  {token, password} → 200 text
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePlain(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	_, valid := s.resetTokens[req.Token]
	if valid && req.Password != "" {
		delete(s.resetTokens, req.Token)
	}
	s.mu.Unlock()

	if !valid || req.Password == "" {
		writePlain(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	writePlain(w, http.StatusOK, backend.ResetSuccessBody)
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
