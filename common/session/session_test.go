package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(ttl time.Duration) (*Manager, *time.Time) {
	m := NewManager(ttl)
	now := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	m.TimeNow = func() time.Time { return now }
	return m, &now
}

func TestIssueAndValidate(t *testing.T) {
	m, _ := newTestManager(30 * time.Minute)

	token, err := m.Issue()
	require.NoError(t, err)
	assert.Len(t, token, 48) // 24 random bytes, hex encoded

	assert.True(t, m.Validate(token))
	assert.False(t, m.Validate("no-such-token"))
}

func TestIssueUniqueTokens(t *testing.T) {
	m, _ := newTestManager(30 * time.Minute)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := m.Issue()
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestSlidingExpiry(t *testing.T) {
	m, now := newTestManager(30 * time.Minute)

	token, err := m.Issue()
	require.NoError(t, err)

	// 29 minutes later the token is still live, and validating it pushes
	// the expiry out another full ttl
	*now = now.Add(29 * time.Minute)
	require.True(t, m.Validate(token))

	*now = now.Add(29 * time.Minute)
	require.True(t, m.Validate(token))
}

func TestExpiryWithoutUse(t *testing.T) {
	m, now := newTestManager(30 * time.Minute)

	token, err := m.Issue()
	require.NoError(t, err)

	*now = now.Add(30 * time.Minute)
	assert.False(t, m.Validate(token))

	// the stale entry was purged, so it stays dead even if the clock ran
	// backwards afterwards
	*now = now.Add(-20 * time.Minute)
	assert.False(t, m.Validate(token))
}

func TestRevoke(t *testing.T) {
	m, _ := newTestManager(30 * time.Minute)

	token, err := m.Issue()
	require.NoError(t, err)

	m.Revoke(token)
	assert.False(t, m.Validate(token))

	// revoking again is a no-op
	m.Revoke(token)
	m.Revoke("never-issued")
}
