package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mobilearn/appcore/internal/apperror"
	"github.com/mobilearn/appcore/internal/model"
)

// DefaultTimeout bounds every backend call when the caller does not
// configure one. The platform original had no timeout at all, which left a
// hanging request hanging forever.
const DefaultTimeout = 15 * time.Second

// Client talks to the platform API. Endpoint paths are composed from the
// configured base URL and API version, e.g. {base}/auth/v1/login.
type Client struct {
	baseURL string
	version string
	http    *http.Client

	// token is set after login so course/chat calls carry the bearer.
	token string
}

var (
	_ AuthAPI   = (*Client)(nil)
	_ CourseAPI = (*Client)(nil)
)

// NewClient creates a Client for the given base URL and API version.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(baseURL, version string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		version: version,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken installs the session token used as the bearer credential on
// course and chat calls. An empty token clears it.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) endpoint(service, rest string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, service, c.version, rest)
}

// Signup sends a creation request to the authentication service.
// A non-200 status yields an auth error carrying the service's message.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	resp, err := c.postJSON(ctx, c.endpoint("auth", "signup"), req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperror.Auth(readMessage(resp.Body))
	}
	return nil
}

// Login exchanges credentials for an identity. The caller replaces its
// session state only on a nil error.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := c.postJSON(ctx, c.endpoint("auth", "login"), req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Auth(readMessage(resp.Body))
	}

	var out LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperror.Network(fmt.Errorf("decoding login response: %w", err))
	}
	if out.Token == "" {
		return nil, apperror.Auth("login response carried no token")
	}
	return &out, nil
}

// ResetPassword sends the reset token and new password and returns the
// backend's confirmation text. Success is the exact ResetSuccessBody
// sentinel; any other body is an auth failure.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := map[string]string{"token": token, "password": newPassword}
	resp, err := c.postJSON(ctx, c.endpoint("auth", "reset-password"), body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.Network(fmt.Errorf("reading reset response: %w", err))
	}
	confirmation := strings.TrimSpace(string(text))

	if resp.StatusCode != http.StatusOK || confirmation != ResetSuccessBody {
		return "", apperror.Auth(confirmation)
	}
	return confirmation, nil
}

// FavouriteCourses fetches the authoritative favorite set for a channel.
func (c *Client) FavouriteCourses(ctx context.Context, channelID string) ([]string, error) {
	u := c.endpoint("courses", "favourites") + "?channelId=" + url.QueryEscape(channelID)
	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Network(fmt.Errorf("favourites returned status %d", resp.StatusCode))
	}

	var out struct {
		CourseIDs []string `json:"courseIds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperror.Network(fmt.Errorf("decoding favourites response: %w", err))
	}
	return out.CourseIDs, nil
}

// AddFavourite marks a course as favorite. Idempotent per course id.
func (c *Client) AddFavourite(ctx context.Context, courseID string) error {
	return c.favouriteCall(ctx, http.MethodPost, courseID)
}

// RemoveFavourite unmarks a course. Idempotent per course id.
func (c *Client) RemoveFavourite(ctx context.Context, courseID string) error {
	return c.favouriteCall(ctx, http.MethodDelete, courseID)
}

func (c *Client) favouriteCall(ctx context.Context, method, courseID string) error {
	u := c.endpoint("courses", "favourites") + "/" + url.PathEscape(courseID)
	resp, err := c.do(ctx, method, u, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperror.Network(fmt.Errorf("favourite %s returned status %d", method, resp.StatusCode))
	}
	return nil
}

// ChatDetails fetches chat metadata for the given role and chat id.
func (c *Client) ChatDetails(ctx context.Context, role model.Role, chatID string) (*model.ChatDetail, error) {
	u := c.endpoint("chats", role.String()) + "/" + url.PathEscape(chatID)
	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Network(fmt.Errorf("chat details returned status %d", resp.StatusCode))
	}

	var detail model.ChatDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, apperror.Network(fmt.Errorf("decoding chat details: %w", err))
	}
	return &detail, nil
}

func (c *Client) postJSON(ctx context.Context, target string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("backend: encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, target, bytes.NewReader(payload))
}

// do executes one HTTP call, translating transport failures into the
// error taxonomy: deadline exceeded is a timeout, everything else at the
// transport level is a network failure.
func (c *Client) do(ctx context.Context, method, target string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("backend: building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.Timeout(err)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, apperror.Timeout(err)
		}
		return nil, apperror.Network(err)
	}
	return resp, nil
}

// readMessage decodes a { message } error body, falling back to empty so
// apperror.Auth substitutes its generic message.
func readMessage(r io.Reader) string {
	var m MessageResponse
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return ""
	}
	return m.Message
}
