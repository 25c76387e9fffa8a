// Package backend is the HTTP client for the mobilearn platform API.
//
// The stores depend on the AuthAPI and CourseAPI interfaces rather than the
// concrete Client so tests can substitute in-memory fakes.
package backend

import (
	"context"

	"github.com/mobilearn/appcore/internal/model"
)

// SignupRequest is the body of POST /auth/{version}/signup.
type SignupRequest struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// LoginRequest is the body of POST /auth/{version}/login.
type LoginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// LoginResponse is the 200 body of a successful login.
type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Role     string `json:"role"`
}

// MessageResponse is the generic { message } body used by signup and by
// error responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ResetSuccessBody is the exact plain-text body the backend sends on a
// successful password reset. Anything else counts as failure.
const ResetSuccessBody = "Password successfully reset"

// AuthAPI covers the identity endpoints the session store calls.
type AuthAPI interface {
	Signup(ctx context.Context, req SignupRequest) error
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

// CourseAPI covers the course and chat endpoints the course store calls.
type CourseAPI interface {
	FavouriteCourses(ctx context.Context, channelID string) ([]string, error)
	AddFavourite(ctx context.Context, courseID string) error
	RemoveFavourite(ctx context.Context, courseID string) error
	ChatDetails(ctx context.Context, role model.Role, chatID string) (*model.ChatDetail, error)
}
