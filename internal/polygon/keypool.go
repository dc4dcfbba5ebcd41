package polygon

import (
	"context"
	"strings"
	"sync"
	"time"
)

// APIKeyInfo tracks usage of one API key.
type APIKeyInfo struct {
	Key          string
	LastUsed     time.Time
	RequestCount int64
}

// KeySelectionStrategy defines how a key is picked from the pool.
type KeySelectionStrategy int

const (
	RoundRobin KeySelectionStrategy = iota
	LeastUsed
)

// ParseKeyStrategy maps "round-robin" / "least-used" to a strategy. Unknown → RoundRobin.
func ParseKeyStrategy(s string) KeySelectionStrategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "least-used", "least_used", "leastused":
		return LeastUsed
	default:
		return RoundRobin
	}
}

func (k KeySelectionStrategy) String() string {
	switch k {
	case RoundRobin:
		return "round-robin"
	case LeastUsed:
		return "least-used"
	default:
		return "unknown"
	}
}

// APIKeyPool hands out keys to concurrent workers.
type APIKeyPool struct {
	mu          sync.Mutex
	keys        []*APIKeyInfo
	index       int
	strategy    KeySelectionStrategy
	rateLimiter *RateLimiter
}

// NewAPIKeyPool builds a pool over the non-empty keys. An empty pool is valid;
// Next then returns ErrNoAPIKey.
func NewAPIKeyPool(apiKeys []string, strategy KeySelectionStrategy, minInterval time.Duration) *APIKeyPool {
	p := &APIKeyPool{
		strategy:    strategy,
		rateLimiter: NewRateLimiter(minInterval),
	}
	for _, k := range apiKeys {
		k = strings.TrimSpace(k)
		if k != "" {
			p.keys = append(p.keys, &APIKeyInfo{Key: k})
		}
	}
	return p
}

// Len returns the number of usable keys.
func (p *APIKeyPool) Len() int {
	return len(p.keys)
}

// Next picks a key by strategy and waits for its rate-limit slot.
func (p *APIKeyPool) Next(ctx context.Context) (string, error) {
	if len(p.keys) == 0 {
		return "", ErrNoAPIKey
	}

	p.mu.Lock()
	var selected *APIKeyInfo
	switch p.strategy {
	case LeastUsed:
		selected = p.keys[0]
		for _, key := range p.keys[1:] {
			if key.RequestCount < selected.RequestCount {
				selected = key
			}
		}
	default:
		selected = p.keys[p.index]
		p.index = (p.index + 1) % len(p.keys)
	}
	selected.RequestCount++
	p.mu.Unlock()

	if err := p.rateLimiter.WaitForKey(ctx, selected.Key); err != nil {
		return "", err
	}

	p.mu.Lock()
	selected.LastUsed = time.Now()
	p.mu.Unlock()
	return selected.Key, nil
}

// Stats returns per-key usage with keys shortened to a prefix.
func (p *APIKeyPool) Stats() map[string]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]int64, len(p.keys))
	for _, k := range p.keys {
		out[KeyPrefix(k.Key)] += k.RequestCount
	}
	return out
}

// KeyPrefix shortens a key for logs.
func KeyPrefix(key string) string {
	if len(key) > 8 {
		return key[:8] + "..."
	}
	return key
}
