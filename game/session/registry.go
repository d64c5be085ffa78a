package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
)

// tokenBytes sets the entropy of access tokens: 16 bytes is 128 bits,
// enough that guessing or enumerating tokens is computationally infeasible.
const tokenBytes = 16

// Registry maps secret access tokens to live sessions. The relay runs two
// independent instances, one for join tokens and one for watch tokens; a
// token resolves to exactly one session until it is revoked.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty token registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Issue generates a fresh URL-safe token and maps it to s.
func (r *Registry) Issue(s *Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	r.mu.Lock()
	r.sessions[token] = s
	r.mu.Unlock()

	return token, nil
}

// Resolve looks up the session a token grants access to.
func (r *Registry) Resolve(token string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[token]
	return s, ok
}

// Revoke removes a token. Revoking an absent token is a no-op, and a
// revoked token never resolves again.
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}

// Count returns the number of live tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sessions returns the sessions currently reachable through this registry.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, s)
	}
	return result
}

// generateToken returns a URL-safe random token.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
