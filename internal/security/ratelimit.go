// Package security is the request gate: per-identity rate limiting, input
// validation against a bulk-extraction denylist, and response filtering.
// Only requests passing the gate ever reach the language model.
package security

import (
	"errors"
	"sync"
	"time"
)

// Gate rejection reasons, distinguishable so callers can branch behavior.
var (
	// ErrRateLimited indicates the identity exceeded its request window.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidInput indicates the question failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	// DefaultMaxRequests is the default request budget per window.
	DefaultMaxRequests = 10

	// DefaultWindow is the default sliding-window length.
	DefaultWindow = time.Minute

	rateLimiterCleanupInterval = 5 * time.Minute
	rateLimiterStaleThreshold  = 10 * time.Minute
)

// RateLimiter tracks request timestamps per client identity in a sliding
// window. The prune-check-append sequence runs as one critical section so
// near-simultaneous requests from the same identity cannot both pass the
// count check. State is in-memory only; a restart resets all windows.
type RateLimiter struct {
	mu          sync.Mutex
	windows     map[string][]time.Time
	maxRequests int
	window      time.Duration
	lastCleanup time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window per
// identity. Zero values fall back to the defaults.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateLimiter{
		windows:     make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		lastCleanup: time.Now(),
	}
}

// Allow records a request attempt for identity at time now. It prunes
// timestamps older than the window, rejects when the remaining count has
// reached the budget, and appends now on acceptance.
func (rl *RateLimiter) Allow(identity string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Periodic cleanup of identities that have gone quiet, so the map does
	// not grow without bound across the process lifetime.
	if now.Sub(rl.lastCleanup) > rateLimiterCleanupInterval {
		for id, ts := range rl.windows {
			if len(ts) == 0 || now.Sub(ts[len(ts)-1]) > rateLimiterStaleThreshold {
				delete(rl.windows, id)
			}
		}
		rl.lastCleanup = now
	}

	cutoff := now.Add(-rl.window)
	ts := rl.windows[identity]

	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= rl.maxRequests {
		rl.windows[identity] = kept
		return false
	}

	rl.windows[identity] = append(kept, now)
	return true
}
