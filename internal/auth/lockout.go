package auth

import (
	"sync"
	"time"
)

// Lockout counts failed login attempts per email and client address and
// hard-locks the pair after too many failures inside the window. State is
// in-process; a restart clears it, which only ever fails open.
type Lockout struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	lockFor   time.Duration
	entries   map[string]*lockoutEntry
}

type lockoutEntry struct {
	failures    int
	firstAt     time.Time
	lockedUntil time.Time
}

func NewLockout(threshold int, window, lockFor time.Duration) *Lockout {
	if threshold < 1 {
		panic("auth: lockout threshold must be positive")
	}
	return &Lockout{
		threshold: threshold,
		window:    window,
		lockFor:   lockFor,
		entries:   make(map[string]*lockoutEntry),
	}
}

func lockoutKey(email, ip string) string {
	return email + "|" + ip
}

// Allowed reports whether a login attempt for the pair may proceed. Expired
// entries are dropped on the way through, so the map stays bounded by the
// set of addresses that failed recently.
func (l *Lockout) Allowed(email, ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := lockoutKey(email, ip)
	entry, exists := l.entries[key]
	if !exists {
		return true
	}
	if !entry.lockedUntil.IsZero() {
		if now.Before(entry.lockedUntil) {
			return false
		}
		delete(l.entries, key)
		return true
	}
	if now.Sub(entry.firstAt) > l.window {
		delete(l.entries, key)
	}
	return true
}

// RecordFailure notes a failed attempt and applies the hard lock when the
// pair crosses the threshold inside the window.
func (l *Lockout) RecordFailure(email, ip string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := lockoutKey(email, ip)
	entry, exists := l.entries[key]
	if !exists || now.Sub(entry.firstAt) > l.window {
		l.entries[key] = &lockoutEntry{failures: 1, firstAt: now}
		return
	}

	entry.failures++
	if entry.failures >= l.threshold {
		entry.lockedUntil = now.Add(l.lockFor)
	}
}

// Clear forgets the pair after a successful login.
func (l *Lockout) Clear(email, ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, lockoutKey(email, ip))
}
