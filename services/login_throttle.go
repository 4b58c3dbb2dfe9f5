package services

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const ThrottleCooldownCapSeconds = 30

// ThrottleError is returned while a client is cooling down after failed
// staff logins.
type ThrottleError struct {
	WaitSeconds int
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("too many attempts, retry in %ds", e.WaitSeconds)
}

type throttleEntry struct {
	failCount     int
	cooldownUntil time.Time
}

// LoginThrottle tracks failed attempts per client key (chat id, remote
// address) in memory.
type LoginThrottle struct {
	mu      sync.Mutex
	entries map[string]throttleEntry
	now     func() time.Time
}

func NewLoginThrottle() *LoginThrottle {
	return &LoginThrottle{entries: make(map[string]throttleEntry), now: time.Now}
}

// WaitSeconds returns how many seconds key must wait before trying again (0 if no cooldown).
func (t *LoginThrottle) WaitSeconds(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		return 0
	}
	now := t.now()
	if now.Before(e.cooldownUntil) {
		return int(e.cooldownUntil.Sub(now).Seconds()) + 1 // round up
	}
	return 0
}

// RecordFailed increments the fail count and sets cooldown = min(30, 2^failCount) seconds.
func (t *LoginThrottle) RecordFailed(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entries[key]
	e.failCount++
	e.cooldownUntil = t.now().Add(time.Duration(CooldownSecondsForFailCount(e.failCount)) * time.Second)
	t.entries[key] = e
}

func (t *LoginThrottle) RecordSuccess(key string) {
	t.mu.Lock()
	delete(t.entries, key)
	t.mu.Unlock()
}

// CooldownSecondsForFailCount returns min(30, 2^failCount).
func CooldownSecondsForFailCount(failCount int) int {
	s := int(math.Pow(2, float64(failCount)))
	if s > ThrottleCooldownCapSeconds {
		return ThrottleCooldownCapSeconds
	}
	return s
}
