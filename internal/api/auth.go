package api

import (
	"log"
	"sync"
	"time"

	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/golang-jwt/jwt/v5"
)

// Auth carries the session tokens of one user through client calls. It is
// safe for concurrent use. The persist hook runs after every token change.
type Auth struct {
	mu      sync.Mutex
	session entity.Session
	persist func(entity.Session) error
}

func NewAuth(session entity.Session, persist func(entity.Session) error) *Auth {
	return &Auth{session: session, persist: persist}
}

// Session returns a copy of the current tokens.
func (a *Auth) Session() entity.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *Auth) LoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.AccessToken != ""
}

func (a *Auth) accessToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.AccessToken
}

func (a *Auth) refreshToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.RefreshToken
}

func (a *Auth) setAccessToken(token string) {
	a.mu.Lock()
	a.session.AccessToken = token
	a.session.UpdatedAt = time.Now()
	session := a.session
	a.mu.Unlock()

	a.save(session)
}

// clear drops both tokens, forcing a new login.
func (a *Auth) clear() {
	a.mu.Lock()
	a.session.AccessToken = ""
	a.session.RefreshToken = ""
	a.session.UpdatedAt = time.Now()
	session := a.session
	a.mu.Unlock()

	a.save(session)
}

func (a *Auth) save(session entity.Session) {
	if a.persist == nil {
		return
	}
	if err := a.persist(session); err != nil {
		log.Printf("Failed to persist session: %v", err)
	}
}

// accessExpired reports whether the access token carries an exp claim in the
// past. Tokens that are not JWTs, or have no exp, are left to the server.
func (a *Auth) accessExpired(now time.Time) bool {
	return tokenExpired(a.accessToken(), now)
}

func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
