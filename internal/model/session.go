// Package model defines the data structures shared by the stores and the
// backend client. The `json:"..."` tags control both the wire format of
// backend requests and the shape of the persisted state envelopes.
package model

import "fmt"

// Role is the closed set of account roles known to the platform.
//
// The platform's original clients passed roles around as raw strings, which
// made invalid values representable. Role is string-backed so it marshals to
// the same wire values, but every external input goes through ParseRole.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleMember     Role = "member"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// ParseRole converts a wire string into a Role.
// Anything outside the closed set is rejected rather than passed through.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleGuest, RoleMember, RoleInstructor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("model: unknown role %q", s)
}

// String returns the wire representation of the role.
func (r Role) String() string { return string(r) }

// Session is the authenticated identity held by the session store.
//
// Invariant: Role is RoleGuest and Token is empty exactly when no
// authenticated session exists. Login replaces the whole value, Logout
// resets it to DefaultSession; there are no partial mutations.
type Session struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	Role     Role   `json:"role"`
}

// DefaultSession is the unauthenticated state.
func DefaultSession() Session {
	return Session{Role: RoleGuest}
}

// Authenticated reports whether the session holds a logged-in identity.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != RoleGuest
}
