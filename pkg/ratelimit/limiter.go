package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// LimiterStore hands out one token bucket per key, created on first use.
type LimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	burst    int
}

func NewLimiterStore(r rate.Limit, burst int) *LimiterStore {
	return &LimiterStore{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (s *LimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, exists := s.limiters[key]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(s.r, s.burst)
	s.limiters[key] = limiter
	return limiter
}

// Wait blocks until the bucket for key has a token or ctx is done. It
// reports whether the caller had to queue.
func (s *LimiterStore) Wait(ctx context.Context, key string) (bool, error) {
	limiter := s.GetLimiter(key)
	if limiter.Allow() {
		return false, nil
	}
	return true, limiter.Wait(ctx)
}
