package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches any 401 response
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired is returned when the refresh token was rejected
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrNotLoggedIn is returned for authorised calls without an access token
	ErrNotLoggedIn = errors.New("not logged in")
)

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// UserMessage is the text to show for the failure.
func (e *Error) UserMessage() string {
	return e.Error()
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// newError builds an Error from a response body, taking the message from
// the first of message, msg or error that is set.
func newError(status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	apiErr := &Error{StatusCode: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Message, payload.Msg, payload.Error} {
			if m != "" {
				apiErr.Message = m
				return apiErr
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") && len(text) < 200 {
		apiErr.Message = text
	}
	return apiErr
}
