// Package session holds the bearer token of one logged-in operator.
//
// A Session is set on login, cleared on logout and only read anywhere else.
// It is passed explicitly to the backend client; there is no process-wide
// token.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func New() *Session {
	return &Session{}
}

// Set stores the token obtained at login. When the token is a JWT its exp
// claim is read without verification; the backend remains the authority.
func (s *Session) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = tokenExpiry(token)
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// ExpiresAt is zero for opaque tokens.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return true
	}
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
