// Package throttle tracks failed login attempts per identity and enforces a
// cooldown window after repeated failures. State is process-wide and
// in-memory only; expiry is evaluated lazily at call time, never on a timer.
package throttle

import (
	"sync"
	"time"

	"account-ledger/internal/utils"
)

const (
	// DefaultThreshold is the number of consecutive failures that arms the
	// cooldown.
	DefaultThreshold = 5
	// DefaultCooldown is how long an identity stays locked once the
	// threshold is reached.
	DefaultCooldown = 1800 * time.Second
)

type record struct {
	count         int
	lastFailure   time.Time
	cooldownUntil time.Time
}

// Tracker is the owned throttle object injected into the login path.
// Concurrent updates to the same identity serialize on the internal mutex.
type Tracker struct {
	mu        sync.Mutex
	attempts  map[string]*record
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		attempts:  make(map[string]*record),
		threshold: DefaultThreshold,
		cooldown:  DefaultCooldown,
		now:       time.Now,
	}
}

// NewTrackerWithClock is for tests that need to move time.
func NewTrackerWithClock(threshold int, cooldown time.Duration, now func() time.Time) *Tracker {
	return &Tracker{
		attempts:  make(map[string]*record),
		threshold: threshold,
		cooldown:  cooldown,
		now:       now,
	}
}

// Blocked reports whether the identity is inside its cooldown window, and
// until when. It must be consulted before credential verification runs.
func (t *Tracker) Blocked(identity string) (bool, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.attempts[identity]
	if !ok {
		return false, time.Time{}
	}
	if t.now().After(rec.cooldownUntil) {
		return false, time.Time{}
	}
	return true, rec.cooldownUntil
}

// RecordFailure increments the failure count and stamps the failure time.
// Reaching the threshold arms the cooldown.
func (t *Tracker) RecordFailure(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.attempts[identity]
	if !ok {
		rec = &record{}
		t.attempts[identity] = rec
	}
	rec.count++
	rec.lastFailure = t.now()
	if rec.count >= t.threshold {
		rec.cooldownUntil = t.now().Add(t.cooldown)
		utils.LogWarning("Throttle", "Identity %s locked after %d failed attempts", identity, rec.count)
	}
}

// Reset clears the identity's record; called on successful login regardless
// of prior state.
func (t *Tracker) Reset(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts[identity] = &record{}
}

// Failures returns the current failure count for an identity.
func (t *Tracker) Failures(identity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.attempts[identity]
	if !ok {
		return 0
	}
	return rec.count
}
