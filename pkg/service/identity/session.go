package identity

import (
	"context"
	"sync"

	"github.com/secmon-lab/juno/pkg/domain/model"
)

// Session holds the ID token of the signed in identity and hands it to the
// API transport.
type Session struct {
	mu     sync.RWMutex
	token  string
	claims *model.Claims
}

// NewSession creates an anonymous session
func NewSession() *Session {
	return &Session{}
}

// Token implements interfaces.TokenSource
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Set stores a verified token and returns the subject it replaces
func (s *Session) Set(token string, claims *model.Claims) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var previous string
	if s.claims != nil {
		previous = s.claims.Subject
	}
	s.token = token
	s.claims = claims
	return previous
}

// Claims returns the signed in identity, or nil
func (s *Session) Claims() *model.Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

// Clear signs the session out
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.claims = nil
}
