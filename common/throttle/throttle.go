package throttle

import (
	"sync"
	"time"
)

type record struct {
	count       int
	windowStart time.Time
	lockedUntil time.Time
}

// Limiter tracks failed login attempts per client and locks a client out once
// it burns through maxAttempts inside a window. It must be consulted before
// the credential guard so a locked client never reaches the slow hash path.
type Limiter struct {
	mu      sync.Mutex
	records map[string]*record

	maxAttempts int
	window      time.Duration
	lockout     time.Duration

	TimeNow func() time.Time
}

func NewLimiter(maxAttempts int, window, lockout time.Duration) *Limiter {
	return &Limiter{
		records:     make(map[string]*record),
		maxAttempts: maxAttempts,
		window:      window,
		lockout:     lockout,
		TimeNow:     time.Now,
	}
}

// Allow reports whether client may attempt a login right now. It is false
// only while a lockout is active; an expired lockout or window clears the
// record.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[client]
	if !ok {
		return true
	}

	now := l.TimeNow()

	if !rec.lockedUntil.IsZero() {
		if now.Before(rec.lockedUntil) {
			return false
		}
		delete(l.records, client)
		return true
	}

	if now.Sub(rec.windowStart) >= l.window {
		delete(l.records, client)
	}

	return true
}

// Fail records a failed attempt. The attempt either starts a new window or
// accumulates in the current one; reaching maxAttempts trips the lockout.
func (l *Limiter) Fail(client string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.TimeNow()

	rec, ok := l.records[client]
	if !ok || now.Sub(rec.windowStart) >= l.window {
		l.records[client] = &record{count: 1, windowStart: now}
		return
	}

	rec.count++
	if rec.count >= l.maxAttempts {
		rec.lockedUntil = now.Add(l.lockout)
	}
}

// Clear wipes the client's record after a successful login.
func (l *Limiter) Clear(client string) {
	l.mu.Lock()
	delete(l.records, client)
	l.mu.Unlock()
}
