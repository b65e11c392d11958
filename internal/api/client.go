// Package api is the HTTP client for the scheduling backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a new session.
func (c *Client) Login(ctx context.Context, email, password string) (entity.Session, error) {
	status, body, err := c.send(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, "")
	if err != nil {
		return entity.Session{}, err
	}
	if !isSuccess(status) {
		return entity.Session{}, newError(status, body)
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return entity.Session{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	if tokens.AccessToken == "" {
		return entity.Session{}, errors.New("login response has no access token")
	}

	return entity.Session{
		Email:        email,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		UpdatedAt:    c.now(),
	}, nil
}

// Refresh trades the refresh token for a new access token. A rejected
// refresh clears the session and returns ErrSessionExpired.
func (c *Client) Refresh(ctx context.Context, auth *Auth) error {
	refresh := auth.refreshToken()
	if refresh == "" {
		return ErrSessionExpired
	}

	status, body, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, nil, refresh)
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	if !isSuccess(status) {
		auth.clear()
		return fmt.Errorf("%w: %v", ErrSessionExpired, newError(status, body))
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil || tokens.AccessToken == "" {
		auth.clear()
		return fmt.Errorf("%w: malformed refresh response", ErrSessionExpired)
	}

	auth.setAccessToken(tokens.AccessToken)
	return nil
}

// Logout revokes the session on the server. Failures are only logged; the
// caller always drops its local copy.
func (c *Client) Logout(ctx context.Context, auth *Auth) {
	if !auth.LoggedIn() {
		return
	}
	if err := c.authorized(ctx, auth, http.MethodDelete, "/auth/logout", nil, nil, nil); err != nil {
		log.Printf("Failed to revoke session on server: %v", err)
	}
}

// Me returns the profile of the signed-in user.
func (c *Client) Me(ctx context.Context, auth *Auth) (*entity.Profile, error) {
	var profile entity.Profile
	if err := c.authorized(ctx, auth, http.MethodGet, "/auth/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// authorized performs a call with the bearer access token. An expired token
// is refreshed first; a 401 triggers one refresh and one retry.
func (c *Client) authorized(ctx context.Context, auth *Auth, method, path string, query url.Values, payload, out any) error {
	if !auth.LoggedIn() {
		return ErrNotLoggedIn
	}

	if auth.refreshToken() != "" && auth.accessExpired(c.now()) {
		if err := c.Refresh(ctx, auth); err != nil {
			return err
		}
	}

	status, body, err := c.send(ctx, method, path, query, payload, auth.accessToken())
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && auth.refreshToken() != "" {
		if err := c.Refresh(ctx, auth); err != nil {
			return err
		}
		status, body, err = c.send(ctx, method, path, query, payload, auth.accessToken())
		if err != nil {
			return err
		}
	}

	if !isSuccess(status) {
		return newError(status, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload any, bearer string) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response from %s %s: %w", method, path, err)
	}
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
