package polygon

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiter enforces a minimum spacing between requests on the same key.
// On the free tier 5 req/min means 12s per key.
type RateLimiter struct {
	mu          sync.Mutex
	next        map[string]time.Time // key -> earliest next request
	delayPerReq time.Duration
}

func NewRateLimiter(delay time.Duration) *RateLimiter {
	return &RateLimiter{
		next:        make(map[string]time.Time),
		delayPerReq: delay,
	}
}

// WaitForKey reserves the next slot for apiKey and sleeps until it opens.
func (r *RateLimiter) WaitForKey(ctx context.Context, apiKey string) error {
	if r == nil || r.delayPerReq <= 0 {
		return nil
	}

	r.mu.Lock()
	now := time.Now()
	slot := r.next[apiKey]
	if slot.Before(now) {
		slot = now
	}
	r.next[apiKey] = slot.Add(r.delayPerReq)
	r.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}
	slog.Debug("rate limit wait", "key", KeyPrefix(apiKey), "wait", wait.Round(time.Millisecond))
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
