package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

const tokenSize = 24

// Manager issues opaque admin bearer tokens with a sliding expiry. State is
// process local; a restart simply forces a re-login.
type Manager struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration

	TimeNow func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		tokens:  make(map[string]time.Time),
		ttl:     ttl,
		TimeNow: time.Now,
	}
}

// Issue creates a token with ttl of fresh validity.
func (m *Manager) Issue() (string, error) {
	buf := make([]byte, tokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	token := hex.EncodeToString(buf)

	m.mu.Lock()
	m.tokens[token] = m.TimeNow().Add(m.ttl)
	m.mu.Unlock()

	return token, nil
}

// Validate reports whether token is live. A successful validation pushes the
// expiry forward by the full ttl; an expired entry is purged on the spot.
func (m *Manager) Validate(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.tokens[token]
	if !ok {
		return false
	}

	now := m.TimeNow()
	if !now.Before(expiry) {
		delete(m.tokens, token)
		return false
	}

	m.tokens[token] = now.Add(m.ttl)
	return true
}

// Revoke drops token unconditionally. Revoking an unknown token is a no-op.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	delete(m.tokens, token)
	m.mu.Unlock()
}
