package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter is a token bucket that spaces out analysis calls. A minimum
// interval between requests prevents bursts even while tokens remain.
type Limiter struct {
	mu          sync.Mutex
	tokens      int
	maxTokens   int
	refillRate  time.Duration
	lastRefill  time.Time
	minInterval time.Duration
	lastRequest time.Time
}

// New creates a limiter allowing maxRequests per window, with at least
// minInterval between consecutive requests. Non-positive arguments fall
// back to 60 requests per minute, 100ms apart.
func New(maxRequests int, window time.Duration, minInterval time.Duration) *Limiter {
	if maxRequests <= 0 {
		maxRequests = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if minInterval <= 0 {
		minInterval = 100 * time.Millisecond
	}

	return &Limiter{
		tokens:      maxRequests,
		maxTokens:   maxRequests,
		refillRate:  window / time.Duration(maxRequests),
		lastRefill:  time.Now(),
		minInterval: minInterval,
	}
}

// refill adds tokens accrued since the last refill. Caller holds l.mu.
func (l *Limiter) refill(now time.Time) {
	elapsed := now.Sub(l.lastRefill)
	if elapsed <= 0 {
		return
	}
	added := int(elapsed / l.refillRate)
	if added > 0 {
		l.tokens = min(l.maxTokens, l.tokens+added)
		l.lastRefill = now
	}
}

// sleep waits for d without holding the lock.
func (l *Limiter) sleep(ctx context.Context, d time.Duration) error {
	l.mu.Unlock()
	defer l.mu.Lock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Wait blocks until a request is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.refill(now)

	if !l.lastRequest.IsZero() {
		if since := now.Sub(l.lastRequest); since < l.minInterval {
			if err := l.sleep(ctx, l.minInterval-since); err != nil {
				return fmt.Errorf("rate limit wait cancelled: %w", err)
			}
			now = time.Now()
			l.refill(now)
		}
	}

	for l.tokens <= 0 {
		wait := l.lastRefill.Add(l.refillRate).Sub(now)
		if wait <= 0 {
			wait = l.refillRate
		}
		if err := l.sleep(ctx, wait); err != nil {
			return fmt.Errorf("rate limit wait cancelled: %w", err)
		}
		now = time.Now()
		l.refill(now)
	}

	l.tokens--
	l.lastRequest = now
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
