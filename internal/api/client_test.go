package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

type fakeBackend struct {
	mu          sync.Mutex
	validAccess string
	refreshOK   bool
	refreshes   int
	calls       map[string]int
	lastBody    map[string]any
	lastQuery   string
	requestIDs  []string
	shiftsBody  string
}

func newFakeBackend(t *testing.T, validAccess string) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{
		validAccess: validAccess,
		refreshOK:   true,
		calls:       map[string]int{},
		shiftsBody:  `[{"id":1,"name":"Lunch","role_required":"Server","start_time":"2025-10-01T14:00:00Z"}]`,
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fb.mu.Lock()
			fb.calls[req.Method+" "+req.URL.Path]++
			fb.requestIDs = append(fb.requestIDs, req.Header.Get(requestIDHeader))
			fb.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body loginRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"` + fb.validAccess + `","refresh_token":"refresh-1"}`))
	})
	r.Post("/api/auth/refresh", func(w http.ResponseWriter, req *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.refreshes++
		if !fb.refreshOK || req.Header.Get("Authorization") != "Bearer refresh-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"Token has expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"` + fb.validAccess + `"}`))
	})
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if req.Header.Get("Authorization") != "Bearer "+fb.validAccess {
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"msg":"Token has expired"}`))
					return
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(`{"id":4,"first_name":"Ana","last_name":"Lima","email":"ana@example.com","role":"manager"}`))
		})
		r.Delete("/api/auth/logout", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/api/schedules/shifts", func(w http.ResponseWriter, req *http.Request) {
			fb.mu.Lock()
			fb.lastQuery = req.URL.Query().Get("week")
			body := fb.shiftsBody
			fb.mu.Unlock()
			_, _ = w.Write([]byte(body))
		})
		r.Patch("/api/schedules/shifts/{id}", func(w http.ResponseWriter, req *http.Request) {
			var body map[string]any
			_ = json.NewDecoder(req.Body).Decode(&body)
			fb.mu.Lock()
			fb.lastBody = body
			fb.mu.Unlock()
			if chi.URLParam(req, "id") == "99" {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"message":"Shift is locked"}`))
				return
			}
			_, _ = w.Write([]byte(`{"shift":{"id":` + chi.URLParam(req, "id") + `,"name":"Lunch","start_time":"` + body["start_time"].(string) + `"}}`))
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) count(key string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[key]
}

func TestClient_Login(t *testing.T) {
	_, srv := newFakeBackend(t, "access-1")
	client := New(srv.URL+"/api", time.Second)

	session, err := client.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", session.Email)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)

	_, err = client.Login(context.Background(), "ana@example.com", "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Error())
}

func TestClient_ListShifts(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
	}{
		{name: "bare array", body: `[{"id":1,"start_time":"2025-10-01T14:00:00Z"},{"id":2,"start_time":"x"}]`, wantLen: 2},
		{name: "shifts envelope", body: `{"shifts":[{"id":1,"start_time":"2025-10-01T14:00:00Z"}]}`, wantLen: 1},
		{name: "data envelope", body: `{"data":[{"id":1},{"id":2},{"id":3}]}`, wantLen: 3},
		{name: "empty envelope", body: `{}`, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, srv := newFakeBackend(t, "access-1")
			fb.shiftsBody = tt.body
			client := New(srv.URL+"/api", time.Second)
			auth := NewAuth(entity.Session{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil)

			shifts, err := client.ListShifts(context.Background(), auth, time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC))

			require.NoError(t, err)
			assert.NotNil(t, shifts)
			assert.Len(t, shifts, tt.wantLen)
			assert.Equal(t, "2025-09-28", fb.lastQuery)
		})
	}
}

func TestClient_ListShifts_keepsMalformedTimestamps(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-1")
	fb.shiftsBody = `[{"id":1,"name":"Prep","start_time":"tbd"}]`
	client := New(srv.URL+"/api", time.Second)
	auth := NewAuth(entity.Session{AccessToken: "access-1"}, nil)

	shifts, err := client.ListShifts(context.Background(), auth, time.Now())

	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "tbd", shifts[0].StartTime)
}

func TestClient_UpdateShiftStart(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-1")
	client := New(srv.URL+"/api", time.Second)
	auth := NewAuth(entity.Session{AccessToken: "access-1"}, nil)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	updated, err := client.UpdateShiftStart(context.Background(), auth, 12, time.Date(2025, 10, 2, 10, 0, 0, 0, ny))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"start_time": "2025-10-02T14:00:00Z"}, fb.lastBody)
	require.NotNil(t, updated)
	assert.Equal(t, int64(12), updated.ID)
	assert.Equal(t, "2025-10-02T14:00:00Z", updated.StartTime)
}

func TestClient_UpdateShiftStart_backendMessage(t *testing.T) {
	_, srv := newFakeBackend(t, "access-1")
	client := New(srv.URL+"/api", time.Second)
	auth := NewAuth(entity.Session{AccessToken: "access-1"}, nil)

	_, err := client.UpdateShiftStart(context.Background(), auth, 99, time.Now())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Shift is locked", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestClient_Schedule(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-2")
	client := New(srv.URL+"/api", time.Second)
	auth := NewAuth(entity.Session{AccessToken: "stale", RefreshToken: "refresh-1"}, nil)
	schedule := client.Schedule(auth)
	ctx := context.Background()

	shifts, err := schedule.ListShifts(ctx, time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "2025-09-28", fb.lastQuery)
	assert.Equal(t, "access-2", auth.Session().AccessToken, "refreshed tokens land in the bound session")

	_, err = schedule.UpdateShiftStart(ctx, 99, time.Now())
	var userErr interface{ UserMessage() string }
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Shift is locked", userErr.UserMessage())
	assert.Equal(t, 1, fb.refreshes)
}

func TestClient_refreshesOnUnauthorized(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-2")
	client := New(srv.URL+"/api", time.Second)

	var persisted []entity.Session
	auth := NewAuth(entity.Session{AccessToken: "stale", RefreshToken: "refresh-1"}, func(s entity.Session) error {
		persisted = append(persisted, s)
		return nil
	})

	profile, err := client.Me(context.Background(), auth)

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, 1, fb.refreshes)
	assert.Equal(t, 2, fb.count("GET /api/auth/me"))
	assert.Equal(t, "access-2", auth.Session().AccessToken)
	require.Len(t, persisted, 1)
	assert.Equal(t, "access-2", persisted[0].AccessToken)
}

func TestClient_refreshFailureExpiresSession(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-2")
	fb.refreshOK = false
	client := New(srv.URL+"/api", time.Second)
	auth := NewAuth(entity.Session{AccessToken: "stale", RefreshToken: "refresh-1"}, nil)

	_, err := client.ListShifts(context.Background(), auth, time.Now())

	require.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, auth.LoggedIn())
	assert.Empty(t, auth.Session().RefreshToken)
	assert.Equal(t, 1, fb.refreshes)
	assert.Equal(t, 1, fb.count("GET /api/schedules/shifts"))
}

func TestClient_unauthorizedWithoutRefreshToken(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-2")
	client := New(srv.URL+"/api", time.Second)
	auth := NewAuth(entity.Session{AccessToken: "stale"}, nil)

	_, err := client.Me(context.Background(), auth)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, fb.refreshes)
}

func TestClient_proactiveRefreshOfExpiredToken(t *testing.T) {
	fresh := signToken(t, time.Now().Add(time.Hour))
	fb, srv := newFakeBackend(t, fresh)
	client := New(srv.URL+"/api", time.Second)
	auth := NewAuth(entity.Session{AccessToken: signToken(t, time.Now().Add(-time.Minute)), RefreshToken: "refresh-1"}, nil)

	_, err := client.Me(context.Background(), auth)

	require.NoError(t, err)
	assert.Equal(t, 1, fb.refreshes)
	assert.Equal(t, 1, fb.count("GET /api/auth/me"), "expired token must not be sent")
	assert.Equal(t, fresh, auth.Session().AccessToken)
}

func TestClient_notLoggedIn(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-1")
	client := New(srv.URL+"/api", time.Second)

	_, err := client.ListShifts(context.Background(), NewAuth(entity.Session{}, nil), time.Now())

	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, fb.count("GET /api/schedules/shifts"))
}

func TestClient_Logout(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-1")
	client := New(srv.URL+"/api", time.Second)

	client.Logout(context.Background(), NewAuth(entity.Session{AccessToken: "access-1"}, nil))

	assert.Equal(t, 1, fb.count("DELETE /api/auth/logout"))
}

func TestClient_sendsRequestID(t *testing.T) {
	fb, srv := newFakeBackend(t, "access-1")
	client := New(srv.URL+"/api", time.Second)
	auth := NewAuth(entity.Session{AccessToken: "access-1"}, nil)

	_, err := client.Me(context.Background(), auth)
	require.NoError(t, err)
	_, err = client.Me(context.Background(), auth)
	require.NoError(t, err)

	require.Len(t, fb.requestIDs, 2)
	for _, id := range fb.requestIDs {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, fb.requestIDs[0], fb.requestIDs[1])
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	assert.True(t, tokenExpired(signToken(t, now.Add(-time.Second)), now))
	assert.False(t, tokenExpired(signToken(t, now.Add(time.Hour)), now))
	assert.False(t, tokenExpired("opaque-token", now))
	assert.False(t, tokenExpired("", now))
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message", body: `{"message":"Shift not found"}`, want: "Shift not found"},
		{name: "msg", body: `{"msg":"Missing Authorization Header"}`, want: "Missing Authorization Header"},
		{name: "error", body: `{"error":"boom"}`, want: "boom"},
		{name: "plain text", body: "Bad Gateway", want: "Bad Gateway"},
		{name: "empty", body: "", want: "request failed with status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newError(http.StatusBadGateway, []byte(tt.body)).Error())
		})
	}
}
