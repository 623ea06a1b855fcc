package ratelimiter

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests admitted per window.
	DefaultLimit = 300
	// DefaultWindow is the trailing duration the limiter counts against.
	DefaultWindow = 60 * time.Second
	// pollInterval is how often Wait retries a denied admission.
	pollInterval = time.Second
)

// RateLimiter admits requests against a sliding window: only timestamps
// within the trailing window count toward the limit, and the decision to
// trim, check, and record is atomic per caller.
type RateLimiter struct {
	mutex  sync.Mutex
	limit  int
	window time.Duration
	hits   []time.Time
	now    func() time.Time
}

// New creates a RateLimiter with the specified limit and window. Non-positive
// arguments fall back to the defaults.
func New(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	return &RateLimiter{
		limit:  limit,
		window: window,
		hits:   make([]time.Time, 0, limit),
		now:    time.Now,
	}
}

// Allow evaluates the current time, discards timestamps that fell out of the
// window, and records a new one if a slot remains. Returns false without
// recording when the window is full.
func (rl *RateLimiter) Allow() bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	rl.trim(now)

	if len(rl.hits) >= rl.limit {
		return false
	}

	rl.hits = append(rl.hits, now)
	return true
}

// Wait blocks until an admission slot opens, retrying once per second. It
// never times out on its own; the caller's context imposes the deadline.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.Allow() {
			return nil
		}

		timer := time.NewTimer(pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Remaining returns the number of admission slots left in the current window.
func (rl *RateLimiter) Remaining() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.trim(rl.now())
	return rl.limit - len(rl.hits)
}

// Limit returns the configured per-window limit.
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// ResetTime returns when the oldest recorded timestamp leaves the window.
// With no recorded hits it reports now.
func (rl *RateLimiter) ResetTime() time.Time {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	rl.trim(now)

	if len(rl.hits) == 0 {
		return now
	}
	return rl.hits[0].Add(rl.window)
}

// trim drops timestamps older than the window. Caller holds the mutex.
func (rl *RateLimiter) trim(now time.Time) {
	cutoff := now.Add(-rl.window)
	kept := 0
	for _, hit := range rl.hits {
		if hit.After(cutoff) {
			break
		}
		kept++
	}
	if kept > 0 {
		rl.hits = append(rl.hits[:0], rl.hits[kept:]...)
	}
}
