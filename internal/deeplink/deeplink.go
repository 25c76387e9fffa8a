// Package deeplink turns inbound application URLs into validated
// navigation requests. Today the only recognized route is the
// password-reset link mailed to users:
//
//	mobilearn://reset-password?token=<reset token>
package deeplink

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mobilearn/appcore/internal/apperror"
)

// Scheme is the application's URL scheme.
const Scheme = "mobilearn"

// RouteResetPassword is the recognized password-reset route.
const RouteResetPassword = "reset-password"

// Navigator is the slice of the navigation layer the handler needs.
// Implementations deduplicate repeated presentations themselves.
type Navigator interface {
	ShowResetPassword(token string)
}

// Handler validates inbound URLs and hands valid ones to the navigator.
// Safe to call any number of times: once for the launch URL, again for
// every URL received while running.
type Handler struct {
	scheme    string
	navigator Navigator
	logger    *slog.Logger
}

// NewHandler creates a Handler for the application scheme.
func NewHandler(navigator Navigator, logger *slog.Logger) *Handler {
	return &Handler{scheme: Scheme, navigator: navigator, logger: logger}
}

// Handle parses rawURL and, for a valid reset-password link, asks the
// navigator to present the reset screen with the extracted token.
//
// Validation failures are local: logged, returned as ErrDeepLink, never
// fatal, and never a navigation side effect.
func (h *Handler) Handle(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return h.reject(rawURL, fmt.Sprintf("unparseable url: %v", err))
	}

	if u.Scheme != h.scheme {
		return h.reject(rawURL, fmt.Sprintf("unexpected scheme %q", u.Scheme))
	}

	// For scheme://host/path URLs the route lands in Host; accept it in
	// the path as well (mobilearn:///reset-password parses that way).
	route := u.Host
	if route == "" {
		route = trimSlashes(u.Path)
	}

	if route != RouteResetPassword {
		return h.reject(rawURL, fmt.Sprintf("unrecognized route %q", route))
	}

	token := u.Query().Get("token")
	if token == "" {
		return h.reject(rawURL, "missing token parameter")
	}

	h.logger.Info("deep link accepted", slog.String("route", route))
	h.navigator.ShowResetPassword(token)
	return nil
}

func (h *Handler) reject(rawURL, reason string) error {
	h.logger.Warn("deep link rejected",
		slog.String("url", rawURL),
		slog.String("reason", reason),
	)
	return apperror.DeepLink(reason)
}

func trimSlashes(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
